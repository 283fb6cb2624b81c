// Package planes administra el catálogo de planes de membresía: nombre,
// duración en días y precio. Las membresías copian estos valores al
// momento de crearse, así que editar un plan no toca las membresías
// existentes.
package planes

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Plan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Nombre       string             `bson:"nombre" json:"nombre"`
	DuracionDias int                `bson:"duracion_dias" json:"duracion_dias"`
	Precio       float64            `bson:"precio" json:"precio"`
	Descripcion  string             `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	Activo       bool               `bson:"activo" json:"activo"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

type CrearRequest struct {
	Nombre       string  `json:"nombre" validate:"required"`
	DuracionDias int     `json:"duracion_dias" validate:"required,gt=0"`
	Precio       float64 `json:"precio" validate:"gte=0"`
	Descripcion  string  `json:"descripcion"`
}

type ActualizarRequest struct {
	Nombre       *string  `json:"nombre"`
	DuracionDias *int     `json:"duracion_dias" validate:"omitempty,gt=0"`
	Precio       *float64 `json:"precio" validate:"omitempty,gte=0"`
	Descripcion  *string  `json:"descripcion"`
}
