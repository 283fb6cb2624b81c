// Package asistencias registra los ingresos al gimnasio. La colección es
// de solo agregado: cada check-in es un documento con una instantánea
// del nombre y el departamento del socio al momento de entrar.
package asistencias

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Asistencia struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UsuarioID          int                `bson:"usuario_id" json:"usuario_id"`
	UsuarioNombre      string             `bson:"usuario_nombre" json:"usuario_nombre"`
	DepartamentoNombre string             `bson:"departamento_nombre,omitempty" json:"departamento_nombre,omitempty"`
	Fecha              time.Time          `bson:"fecha" json:"fecha"`
	TipoAcceso         string             `bson:"tipo_acceso" json:"tipo_acceso"` // manual | biometrico
	Dispositivo        string             `bson:"dispositivo,omitempty" json:"dispositivo,omitempty"`
	Notas              string             `bson:"notas,omitempty" json:"notas,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}

type RegistrarRequest struct {
	UsuarioID   int    `json:"usuario_id" validate:"required,gt=0"`
	TipoAcceso  string `json:"tipo_acceso" validate:"omitempty,oneof=manual biometrico"`
	Dispositivo string `json:"dispositivo"`
	Notas       string `json:"notas"`
}

// Estadisticas resume la actividad para el tablero.
type Estadisticas struct {
	Hoy             int64              `json:"hoy"`
	Semana          int64              `json:"semana"`
	Mes             int64              `json:"mes"`
	Total           int64              `json:"total"`
	TopUsuarios     []TopUsuario       `json:"top_usuarios"`
	PorDepartamento []GrupoConteo      `json:"por_departamento"`
	PorHora         []GrupoConteoHora  `json:"por_hora"`
	SerieSemanal    []GrupoConteoFecha `json:"serie_semanal"`
}

type TopUsuario struct {
	UsuarioID int    `bson:"_id" json:"usuario_id"`
	Nombre    string `bson:"nombre" json:"nombre"`
	Total     int64  `bson:"total" json:"total"`
}

type GrupoConteo struct {
	Grupo string `bson:"_id" json:"grupo"`
	Total int64  `bson:"total" json:"total"`
}

type GrupoConteoHora struct {
	Hora  int   `bson:"_id" json:"hora"`
	Total int64 `bson:"total" json:"total"`
}

type GrupoConteoFecha struct {
	Fecha string `bson:"_id" json:"fecha"` // YYYY-MM-DD
	Total int64  `bson:"total" json:"total"`
}
