// Package biometria guarda las plantillas biométricas de los socios y
// atiende las verificaciones de los lectores. La plantilla viaja en
// base64 y se almacena tal cual; el emparejamiento real lo hace el
// dispositivo.
package biometria

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tipos de plantilla que aceptan los lectores instalados.
const (
	TipoHuella = "huella"
	TipoRostro = "rostro"
)

type Plantilla struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UsuarioID     int                `bson:"usuario_id" json:"usuario_id"`
	UsuarioNombre string             `bson:"usuario_nombre,omitempty" json:"usuario_nombre,omitempty"` // Solo en listados: se une en la consulta
	TipoPlantilla string             `bson:"tipo_plantilla" json:"tipo_plantilla"`
	Template      string             `bson:"template" json:"-"` // base64, no sale por la API
	Calidad       int                `bson:"calidad,omitempty" json:"calidad,omitempty"`
	Dispositivo   string             `bson:"dispositivo,omitempty" json:"dispositivo,omitempty"`
	FechaRegistro time.Time          `bson:"fecha_registro" json:"fecha_registro"`
	Activo        bool               `bson:"activo" json:"activo"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

type RegistrarRequest struct {
	UsuarioID     int    `json:"usuario_id" validate:"required,gt=0"`
	TipoPlantilla string `json:"tipo_plantilla" validate:"required,oneof=huella rostro"`
	Template      string `json:"template" validate:"required,base64"`
	Calidad       int    `json:"calidad" validate:"gte=0,lte=100"`
	Dispositivo   string `json:"dispositivo"`
}

type VerificarRequest struct {
	UsuarioID     int    `json:"usuario_id" validate:"required,gt=0"`
	TipoPlantilla string `json:"tipo_plantilla" validate:"required,oneof=huella rostro"`
	Template      string `json:"template" validate:"required,base64"`
	Dispositivo   string `json:"dispositivo"`
}

// Verificacion es la respuesta al lector.
type Verificacion struct {
	Verificado bool    `json:"verificado"`
	Confianza  float64 `json:"confianza"`
	UsuarioID  int     `json:"usuario_id"`
	Nombre     string  `json:"nombre,omitempty"`
}

type Estadisticas struct {
	Total       int64         `json:"total"`
	Usuarios    int64         `json:"usuarios_con_biometria"`
	PorTipo     []GrupoConteo `json:"por_tipo"`
	Dispositivo []GrupoConteo `json:"por_dispositivo"`
}

type GrupoConteo struct {
	Grupo string `bson:"_id" json:"grupo"`
	Total int64  `bson:"total" json:"total"`
}
