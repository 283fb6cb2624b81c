// Package usuarios gestiona los socios del gimnasio: alta, edición, baja
// lógica, búsqueda y listado por estado de membresía.
// models.go describe el documento de la colección usuarios y los DTOs de
// las peticiones.
package usuarios

import (
	"strings"
	"time"
)

// Usuario representa un socio en la colección usuarios.
//
// El _id es el número de socio ASIGNADO EXTERNAMENTE (el carnet físico),
// no un autogenerado. La ventana de membresía vive embebida en el propio
// documento (fecha_inicio/fecha_fin); el estado NUNCA se guarda, se deriva
// con el paquete estado.
type Usuario struct {
	ID                 int        `bson:"_id" json:"id"`
	Nombre             string     `bson:"nombre" json:"nombre"`
	Apellido           string     `bson:"apellido" json:"apellido"`
	Codigo             string     `bson:"codigo,omitempty" json:"codigo,omitempty"` // Código alfanumérico opcional del carnet
	DepartamentoID     string     `bson:"departamento_id,omitempty" json:"departamento_id,omitempty"`
	DepartamentoNombre string     `bson:"departamento_nombre,omitempty" json:"departamento_nombre,omitempty"` // Denormalizado: se refresca solo al escribir
	Genero             string     `bson:"genero,omitempty" json:"genero,omitempty"`
	FechaNacimiento    *time.Time `bson:"fecha_nacimiento,omitempty" json:"fecha_nacimiento,omitempty"`
	FechaInicio        *time.Time `bson:"fecha_inicio,omitempty" json:"fecha_inicio,omitempty"` // Inicio de la membresía actual
	FechaFin           *time.Time `bson:"fecha_fin,omitempty" json:"fecha_fin,omitempty"`       // Vencimiento de la membresía actual
	Celular            string     `bson:"celular,omitempty" json:"celular,omitempty"`
	Email              string     `bson:"email,omitempty" json:"email,omitempty"`
	TipoDocumento      string     `bson:"tipo_documento,omitempty" json:"tipo_documento,omitempty"`
	NumeroDocumento    string     `bson:"numero_documento,omitempty" json:"numero_documento,omitempty"`
	TieneFoto          bool       `bson:"tiene_foto" json:"tiene_foto"`
	TieneBiometria     bool       `bson:"tiene_biometria" json:"tiene_biometria"`
	TotalPlantillas    int        `bson:"total_plantillas" json:"total_plantillas"`
	Activo             bool       `bson:"activo" json:"activo"`
	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at" json:"updated_at"`
}

// NombreCompleto devuelve "nombre apellido" para mostrar y denormalizar.
func (u *Usuario) NombreCompleto() string {
	return strings.TrimSpace(u.Nombre + " " + u.Apellido)
}

// CrearRequest es el cuerpo de POST /usuarios. El identificador lo asigna
// el llamador (número de carnet), nunca el sistema.
type CrearRequest struct {
	ID              int    `json:"id" validate:"required,gt=0"`
	Nombre          string `json:"nombre" validate:"required"`
	Apellido        string `json:"apellido" validate:"required"`
	Codigo          string `json:"codigo"`
	DepartamentoID  string `json:"departamento_id"`
	Genero          string `json:"genero" validate:"omitempty,oneof=M F Otro"`
	FechaNacimiento string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	FechaInicio     string `json:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	FechaFin        string `json:"fecha_fin" validate:"omitempty,datetime=2006-01-02"`
	Celular         string `json:"celular"`
	Email           string `json:"email" validate:"omitempty,email"`
	TipoDocumento   string `json:"tipo_documento"`
	NumeroDocumento string `json:"numero_documento"`
}

// ActualizarRequest es el parche de PUT /usuarios/:id. Solo enumera los
// campos mutables: los campos administrados por el sistema (flags
// derivados, created_at) no se pueden tocar desde afuera. Un puntero nil
// significa "no modificar".
type ActualizarRequest struct {
	Nombre          *string `json:"nombre"`
	Apellido        *string `json:"apellido"`
	Codigo          *string `json:"codigo"`
	DepartamentoID  *string `json:"departamento_id"`
	Genero          *string `json:"genero" validate:"omitempty,oneof=M F Otro"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	FechaInicio     *string `json:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	FechaFin        *string `json:"fecha_fin" validate:"omitempty,datetime=2006-01-02"`
	Celular         *string `json:"celular"`
	Email           *string `json:"email" validate:"omitempty,email"`
	TipoDocumento   *string `json:"tipo_documento"`
	NumeroDocumento *string `json:"numero_documento"`
}

// ConEstado es un usuario junto con su estado de membresía derivado,
// tal como sale en los listados.
type ConEstado struct {
	Usuario       *Usuario `json:"usuario"`
	Estado        string   `json:"estado"`
	DiasRestantes *int     `json:"dias_restantes"`
	Edad          *int     `json:"edad,omitempty"`
}

// Estadisticas agrega los totales de la colección.
type Estadisticas struct {
	Total           int64         `json:"total"`
	Activos         int64         `json:"activos"`
	Inactivos       int64         `json:"inactivos"`
	ConFoto         int64         `json:"con_foto"`
	ConBiometria    int64         `json:"con_biometria"`
	ConEmail        int64         `json:"con_email"`
	PorDepartamento []GrupoConteo `json:"por_departamento"`
}

// GrupoConteo es una fila de agregación {grupo, total}.
type GrupoConteo struct {
	Grupo string `bson:"_id" json:"grupo"`
	Total int64  `bson:"total" json:"total"`
}
