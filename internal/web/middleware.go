// Package web: middleware.go agrupa el logging de peticiones y la
// recuperación de pánicos del servidor HTTP.
package web

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Logger registra cada petición: método, ruta, código de estado, duración
// e IP del cliente.
func Logger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		inicio := time.Now()
		err := c.Next()

		log.WithFields(log.Fields{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(inicio).String(),
			"ip":       c.IP(),
		}).Debug("Petición HTTP")

		return err
	}
}

// Recovery captura pánicos en los handlers, los registra con el stack
// completo y responde 500 en lugar de tumbar el proceso.
func Recovery() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"component": "panic_recovery",
					"panic":     fmt.Sprintf("%v", r),
					"stack":     string(debug.Stack()),
					"path":      c.Path(),
				}).Error("Pánico recuperado en handler")

				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"error":   "error interno del servidor",
				})
			}
		}()
		return c.Next()
	}
}
