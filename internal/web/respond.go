// Package web contiene la infraestructura HTTP compartida: traducción de
// errores tipados a respuestas JSON y los middlewares de la aplicación.
package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"gymcontrol/internal/common"
)

// Error traduce un error tipado de los servicios a una respuesta JSON con
// el código HTTP que corresponde. Es el ÚNICO punto de traducción: los
// repositorios y servicios solo señalan el tipo de problema.
//
//	validación          → 400
//	no encontrado       → 404
//	duplicado/conflicto → 409
//	almacenamiento/otro → 500
func Error(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	mensaje := err.Error()

	switch {
	case errors.Is(err, common.ErrValidacion):
		status = fiber.StatusBadRequest
	case errors.Is(err, common.ErrNoEncontrado):
		status = fiber.StatusNotFound
	case errors.Is(err, common.ErrIDDuplicado),
		errors.Is(err, common.ErrRenovacionConcurrente):
		status = fiber.StatusConflict
	case errors.Is(err, common.ErrAlmacenamiento):
		log.WithError(err).Error("Error de almacenamiento")
		mensaje = common.ErrAlmacenamiento.Error()
	default:
		// Error no clasificado: lo registramos completo pero no exponemos
		// detalles internos al cliente.
		log.WithError(err).Error("Error no clasificado en handler")
		mensaje = "error interno del servidor"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   mensaje,
	})
}
