// Package membresias implementa el ciclo de vida de las membresías:
// venta, renovación, cancelación y los reportes de ingresos.
//
// Cada membresía copia nombre y condiciones del plan al crearse, así el
// histórico no cambia si el plan se edita después. La ventana vigente
// del socio (fecha_inicio/fecha_fin en usuarios) se mantiene desde acá.
package membresias

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Membresia struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UsuarioID     int                `bson:"usuario_id" json:"usuario_id"`
	UsuarioNombre string             `bson:"usuario_nombre" json:"usuario_nombre"`
	PlanID        string             `bson:"plan_id" json:"plan_id"`
	PlanNombre    string             `bson:"plan_nombre" json:"plan_nombre"`
	DuracionDias  int                `bson:"duracion_dias" json:"duracion_dias"`
	FechaInicio   time.Time          `bson:"fecha_inicio" json:"fecha_inicio"`
	FechaFin      time.Time          `bson:"fecha_fin" json:"fecha_fin"`
	Vigente       bool               `bson:"vigente" json:"vigente"`
	Activo        bool               `bson:"activo" json:"activo"` // false solo si fue cancelada

	PrecioPagado float64   `bson:"precio_pagado" json:"precio_pagado"`
	MetodoPago   string    `bson:"metodo_pago" json:"metodo_pago"`
	Notas        string    `bson:"notas,omitempty" json:"notas,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

type CrearRequest struct {
	UsuarioID    int     `json:"usuario_id" validate:"required,gt=0"`
	PlanID       string  `json:"plan_id" validate:"required"`
	FechaInicio  string  `json:"fecha_inicio"` // YYYY-MM-DD, hoy si falta
	PrecioPagado float64 `json:"precio_pagado" validate:"gte=0"`
	MetodoPago   string  `json:"metodo_pago"`
	Notas        string  `json:"notas"`
}

type RenovarRequest struct {
	PlanID       string  `json:"plan_id"`      // vacío = mismo plan
	FechaInicio  string  `json:"fecha_inicio"` // YYYY-MM-DD, hoy si falta
	PrecioPagado float64 `json:"precio_pagado" validate:"gte=0"`
	MetodoPago   string  `json:"metodo_pago"`
	Notas        string  `json:"notas"`
}

// Estadisticas resume el estado del negocio para los reportes.
type Estadisticas struct {
	Total         int64        `bson:"-" json:"total"`
	Vigentes      int64        `bson:"-" json:"vigentes"`
	IngresosMes   float64      `bson:"-" json:"ingresos_mes"`
	IngresosSerie []IngresoMes `bson:"-" json:"ingresos_por_mes"`
	PorPlan       []PlanConteo `bson:"-" json:"por_plan"`
}

// IngresoMes es un punto de la serie mensual de ingresos.
type IngresoMes struct {
	Mes   string  `bson:"_id" json:"mes"` // YYYY-MM
	Total float64 `bson:"total" json:"total"`
	Count int64   `bson:"count" json:"membresias"`
}

type PlanConteo struct {
	Plan  string `bson:"_id" json:"plan"`
	Total int64  `bson:"total" json:"total"`
}
