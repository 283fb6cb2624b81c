// Package common: errors.go define los errores tipados que usan todos
// los módulos del sistema. Permiten a los handlers distinguir el tipo de
// problema y traducirlo a un código HTTP y un mensaje claro.
package common

import "errors"

var (
	// ErrNoEncontrado: la entidad referida no existe o está dada de baja.
	ErrNoEncontrado = errors.New("recurso no encontrado")
	// ErrValidacion: identificador, fecha o valor de enumeración mal formado.
	ErrValidacion = errors.New("datos inválidos")
	// ErrIDDuplicado: colisión de identificador al crear un registro.
	ErrIDDuplicado = errors.New("el identificador ya existe")
	// ErrAlmacenamiento: la base de datos no está disponible (conexión o timeout).
	// Se propaga sin reintentos: la política de reintento es del cliente.
	ErrAlmacenamiento = errors.New("almacenamiento no disponible")
	// ErrRenovacionConcurrente: otra renovación marcó la membresía primero.
	ErrRenovacionConcurrente = errors.New("la membresía ya fue renovada por otra operación")
)
