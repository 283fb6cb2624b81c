package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func fecha(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTruncarDia(t *testing.T) {
	con := time.Date(2026, 3, 15, 23, 59, 58, 123, time.UTC)
	assert.Equal(t, fecha(2026, 3, 15), TruncarDia(con))

	// La zona horaria se conserva
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	local := time.Date(2026, 3, 15, 10, 30, 0, 0, loc)
	assert.Equal(t, loc, TruncarDia(local).Location())
}

func TestRangoDia(t *testing.T) {
	inicio, fin := RangoDia(time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC))
	assert.Equal(t, fecha(2026, 3, 15), inicio)
	assert.Equal(t, fecha(2026, 3, 16), fin)
}

func TestDiasEntre(t *testing.T) {
	casos := []struct {
		nombre string
		desde  time.Time
		hasta  time.Time
		quiere int
	}{
		{"mismo dia", fecha(2026, 1, 10), fecha(2026, 1, 10), 0},
		{"un dia despues", fecha(2026, 1, 10), fecha(2026, 1, 11), 1},
		{"un dia antes", fecha(2026, 1, 10), fecha(2026, 1, 9), -1},
		{"cruza mes", fecha(2026, 1, 31), fecha(2026, 2, 2), 2},
		{"la hora no cuenta", time.Date(2026, 1, 10, 23, 0, 0, 0, time.UTC), time.Date(2026, 1, 11, 1, 0, 0, 0, time.UTC), 1},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.quiere, DiasEntre(c.desde, c.hasta))
		})
	}
}

func TestDiasEntreCambioDeHorario(t *testing.T) {
	// El 2024-03-10 Nueva York adelanta el reloj: el día dura 23 horas.
	// Contar por componentes de calendario tiene que dar 2 días igual.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	desde := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
	hasta := time.Date(2024, 3, 11, 0, 0, 0, 0, loc)
	assert.Equal(t, 2, DiasEntre(desde, hasta))

	// Y el cambio inverso de noviembre (día de 25 horas) tampoco suma
	desde = time.Date(2024, 11, 2, 0, 0, 0, 0, loc)
	hasta = time.Date(2024, 11, 4, 0, 0, 0, 0, loc)
	assert.Equal(t, 2, DiasEntre(desde, hasta))
}

func TestZonaHoraria(t *testing.T) {
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	assert.Equal(t, "America/Bogota", ZonaHoraria(time.Date(2026, 3, 15, 10, 0, 0, 0, loc)))
	assert.Equal(t, "UTC", ZonaHoraria(fecha(2026, 3, 15)))

	// Una zona anónima de offset fijo cae al desplazamiento numérico
	fija := time.FixedZone("", -5*60*60)
	assert.Equal(t, "-05:00", ZonaHoraria(time.Date(2026, 3, 15, 10, 0, 0, 0, fija)))
}

func TestDiasEntreAntisimetrico(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := fecha(2026, 1, 1)
		a := base.AddDate(0, 0, rapid.IntRange(-1000, 1000).Draw(t, "a"))
		b := base.AddDate(0, 0, rapid.IntRange(-1000, 1000).Draw(t, "b"))
		assert.Equal(t, -DiasEntre(a, b), DiasEntre(b, a))
	})
}

func TestParseFecha(t *testing.T) {
	f, err := ParseFecha("2026-08-29", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, fecha(2026, 8, 29), f)

	_, err = ParseFecha("29/08/2026", time.UTC)
	assert.True(t, errors.Is(err, ErrValidacion))

	_, err = ParseFecha("", time.UTC)
	assert.True(t, errors.Is(err, ErrValidacion))
}

func TestCalcularEdad(t *testing.T) {
	hoy := fecha(2026, 8, 29)

	assert.Nil(t, CalcularEdad(nil, hoy))

	casos := []struct {
		nombre     string
		nacimiento time.Time
		quiere     int
	}{
		{"cumpleanos pasado", fecha(1990, 5, 1), 36},
		{"cumpleanos hoy", fecha(1990, 8, 29), 36},
		{"cumpleanos pendiente", fecha(1990, 12, 1), 35},
		{"mismo mes dia posterior", fecha(1990, 8, 30), 35},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			edad := CalcularEdad(&c.nacimiento, hoy)
			require.NotNil(t, edad)
			assert.Equal(t, c.quiere, *edad)
		})
	}
}
