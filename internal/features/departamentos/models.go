// Package departamentos mantiene el catálogo de departamentos/áreas a las
// que pertenecen los socios. Los usuarios denormalizan el nombre al
// momento de escribir.
package departamentos

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Departamento struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Nombre      string             `bson:"nombre" json:"nombre"`
	Descripcion string             `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	Activo      bool               `bson:"activo" json:"activo"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

type CrearRequest struct {
	Nombre      string `json:"nombre" validate:"required"`
	Descripcion string `json:"descripcion"`
}

type ActualizarRequest struct {
	Nombre      *string `json:"nombre"`
	Descripcion *string `json:"descripcion"`
}
