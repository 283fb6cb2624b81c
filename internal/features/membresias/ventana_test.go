package membresias

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"gymcontrol/internal/common"
)

func fecha(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalcularVentana(t *testing.T) {
	casos := []struct {
		nombre   string
		inicio   time.Time
		duracion int
		quiere   time.Time
	}{
		{"mes de enero", fecha(2024, 1, 5), 30, fecha(2024, 2, 4)},
		{"anual", fecha(2024, 3, 1), 365, fecha(2025, 3, 1)},
		{"semana", fecha(2026, 8, 29), 7, fecha(2026, 9, 5)},
		{"la hora del inicio no cuenta", time.Date(2024, 1, 5, 18, 45, 0, 0, time.UTC), 30, fecha(2024, 2, 4)},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			inicio, fin := CalcularVentana(c.inicio, c.duracion)
			assert.Equal(t, common.TruncarDia(c.inicio), inicio)
			assert.Equal(t, c.quiere, fin)
		})
	}
}

func TestCalcularVentanaDuracionExacta(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := fecha(2024, 1, 1)
		inicio := base.AddDate(0, 0, rapid.IntRange(0, 1500).Draw(t, "offset"))
		duracion := rapid.IntRange(1, 400).Draw(t, "duracion")

		ini, fin := CalcularVentana(inicio, duracion)
		assert.Equal(t, duracion, common.DiasEntre(ini, fin))
	})
}

func TestCalcularVentanaRenovacionAnticipada(t *testing.T) {
	// Renovar el 2024-01-05 una membresía que vencía el 2024-01-10 con
	// un plan de 30 días: la ventana nueva corre desde su propio inicio,
	// fin el 2024-02-04. Los días que le quedaban a la anterior no se
	// suman.
	inicio, fin := CalcularVentana(fecha(2024, 1, 5), 30)
	assert.Equal(t, fecha(2024, 1, 5), inicio)
	assert.Equal(t, fecha(2024, 2, 4), fin)
	assert.NotEqual(t, fecha(2024, 2, 9), fin)
}
