package web

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gymcontrol/internal/common"
)

// validate es la única instancia del validador: cachea la metadata de las
// estructuras, por eso se comparte.
var validate = validator.New()

// Validar verifica las etiquetas `validate` de un DTO y señala las
// violaciones como error de validación (HTTP 400).
func Validar(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidacion, err)
	}
	return nil
}

// ParseBody decodifica el cuerpo JSON en el DTO y lo valida.
func ParseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: cuerpo JSON inválido: %v", common.ErrValidacion, err)
	}
	return Validar(dst)
}

// ParamID lee un parámetro de ruta que debe ser un entero positivo
// (número de socio).
func ParamID(c *fiber.Ctx, nombre string) (int, error) {
	id, err := c.ParamsInt(nombre)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s debe ser un entero positivo", common.ErrValidacion, nombre)
	}
	return id, nil
}
