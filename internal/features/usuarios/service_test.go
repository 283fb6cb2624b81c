package usuarios

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymcontrol/internal/common"
)

func ptr[T any](v T) *T { return &v }

func TestConstruirParcheSoloCamposPresentes(t *testing.T) {
	set, err := construirParche(ActualizarRequest{
		Nombre: ptr("Ana"),
		Email:  ptr("ana@example.com"),
	}, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "Ana", set["nombre"])
	assert.Equal(t, "ana@example.com", set["email"])
	assert.Len(t, set, 2)
}

func TestConstruirParcheVacio(t *testing.T) {
	set, err := construirParche(ActualizarRequest{}, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestConstruirParcheFechas(t *testing.T) {
	set, err := construirParche(ActualizarRequest{
		FechaFin: ptr("2026-12-31"),
	}, time.UTC)
	require.NoError(t, err)

	fin, ok := set["fecha_fin"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), fin)
}

func TestConstruirParcheFechaVaciaLaQuita(t *testing.T) {
	// Cadena vacía cierra la ventana: el campo queda en nil
	set, err := construirParche(ActualizarRequest{
		FechaFin: ptr(""),
	}, time.UTC)
	require.NoError(t, err)

	valor, presente := set["fecha_fin"]
	assert.True(t, presente)
	assert.Nil(t, valor)
}

func TestConstruirParcheFechaInvalida(t *testing.T) {
	_, err := construirParche(ActualizarRequest{
		FechaNacimiento: ptr("31/12/1990"),
	}, time.UTC)
	assert.True(t, errors.Is(err, common.ErrValidacion))
}

func TestNombreCompleto(t *testing.T) {
	u := &Usuario{Nombre: "Ana", Apellido: "García"}
	assert.Equal(t, "Ana García", u.NombreCompleto())

	sinApellido := &Usuario{Nombre: "Ana"}
	assert.Equal(t, "Ana", sinApellido.NombreCompleto())
}
