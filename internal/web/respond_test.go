package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymcontrol/internal/common"
)

func appConError(err error) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Error(c, err)
	})
	return app
}

func TestErrorTraduceEstados(t *testing.T) {
	casos := []struct {
		nombre string
		err    error
		status int
	}{
		{"validacion", fmt.Errorf("%w: campo requerido", common.ErrValidacion), fiber.StatusBadRequest},
		{"no encontrado", fmt.Errorf("usuario 9: %w", common.ErrNoEncontrado), fiber.StatusNotFound},
		{"duplicado", fmt.Errorf("usuario 9: %w", common.ErrIDDuplicado), fiber.StatusConflict},
		{"renovacion concurrente", fmt.Errorf("membresía x: %w", common.ErrRenovacionConcurrente), fiber.StatusConflict},
		{"almacenamiento", fmt.Errorf("%w: timeout", common.ErrAlmacenamiento), fiber.StatusInternalServerError},
		{"desconocido", errors.New("algo raro"), fiber.StatusInternalServerError},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			resp, err := appConError(c.err).Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, c.status, resp.StatusCode)

			var body struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestErrorNoExponeDetallesInternos(t *testing.T) {
	interno := fmt.Errorf("%w: conexión a 10.0.0.5 rechazada", common.ErrAlmacenamiento)

	resp, err := appConError(interno).Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	cuerpo, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(cuerpo), "10.0.0.5")
}

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/u/:id", func(c *fiber.Ctx) error {
		id, err := ParamID(c, "id")
		if err != nil {
			return Error(c, err)
		}
		return c.JSON(fiber.Map{"id": id})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/u/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/u/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/u/-3", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
