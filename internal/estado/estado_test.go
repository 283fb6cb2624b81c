package estado

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func fecha(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestClasificar(t *testing.T) {
	hoy := fecha(2024, 3, 15)

	casos := []struct {
		nombre    string
		fechaFin  *time.Time
		diasAviso int
		estado    Estado
		dias      *int
	}{
		{"sin fecha de fin", nil, 7, SinMembresia, nil},
		{"vencida hace 5 dias", ptr(fecha(2024, 3, 10)), 7, Vencida, intPtr(-5)},
		{"vencida ayer", ptr(fecha(2024, 3, 14)), 7, Vencida, intPtr(-1)},
		{"vence hoy", ptr(fecha(2024, 3, 15)), 7, ProximaAVencer, intPtr(0)},
		{"vence en 3 dias", ptr(fecha(2024, 3, 18)), 7, ProximaAVencer, intPtr(3)},
		{"limite inclusivo: exactamente 7 dias", ptr(fecha(2024, 3, 22)), 7, ProximaAVencer, intPtr(7)},
		{"justo fuera de la ventana: 8 dias", ptr(fecha(2024, 3, 23)), 7, Vigente, intPtr(8)},
		{"vigente a 30 dias", ptr(fecha(2024, 4, 14)), 7, Vigente, intPtr(30)},
		{"ventana cero: vence hoy sigue siendo proxima", ptr(fecha(2024, 3, 15)), 0, ProximaAVencer, intPtr(0)},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			est, dias := Clasificar(c.fechaFin, hoy, c.diasAviso)
			assert.Equal(t, c.estado, est)
			assert.Equal(t, c.dias, dias)
		})
	}
}

// La hora del día no debe afectar la clasificación: ambas fechas se truncan
// a medianoche antes de comparar.
func TestClasificarIgnoraHoraDelDia(t *testing.T) {
	fin := time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC)
	hoy := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)

	est, dias := Clasificar(&fin, hoy, 7)
	require.NotNil(t, dias)
	assert.Equal(t, ProximaAVencer, est)
	assert.Equal(t, 0, *dias)
}

func TestClasificarPropiedades(t *testing.T) {
	base := fecha(2024, 1, 1)

	t.Run("sin fecha siempre sin_membresia", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			offset := rapid.IntRange(-5000, 5000).Draw(t, "offset")
			est, dias := Clasificar(nil, base.AddDate(0, 0, offset), 7)
			if est != SinMembresia || dias != nil {
				t.Fatalf("Clasificar(nil) = (%v, %v)", est, dias)
			}
		})
	})

	t.Run("vencer exactamente a diasAviso nunca es vigente", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			aviso := rapid.IntRange(0, 365).Draw(t, "aviso")
			hoy := base.AddDate(0, 0, rapid.IntRange(-1000, 1000).Draw(t, "hoy"))
			fin := hoy.AddDate(0, 0, aviso)
			est, dias := Clasificar(&fin, hoy, aviso)
			if est != ProximaAVencer {
				t.Fatalf("estado = %v, esperaba proxima_a_vencer", est)
			}
			if dias == nil || *dias != aviso {
				t.Fatalf("dias = %v, esperaba %d", dias, aviso)
			}
		})
	})

	t.Run("dias restantes coincide con el desplazamiento", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			offset := rapid.IntRange(-2000, 2000).Draw(t, "offset")
			aviso := rapid.IntRange(0, 60).Draw(t, "aviso")
			fin := base.AddDate(0, 0, offset)
			est, dias := Clasificar(&fin, base, aviso)
			if dias == nil || *dias != offset {
				t.Fatalf("dias = %v, esperaba %d", dias, offset)
			}
			switch {
			case offset < 0 && est != Vencida:
				t.Fatalf("offset %d: estado %v", offset, est)
			case offset >= 0 && offset <= aviso && est != ProximaAVencer:
				t.Fatalf("offset %d aviso %d: estado %v", offset, aviso, est)
			case offset > aviso && est != Vigente:
				t.Fatalf("offset %d aviso %d: estado %v", offset, aviso, est)
			}
		})
	})
}

type socio struct {
	nombre string
	fin    *time.Time
}

func (s socio) fechaFin() *time.Time { return s.fin }

func evaluarSocios(socios []socio, hoy time.Time, aviso int) ([]Resultado[socio], Conteos) {
	return Evaluar(socios, socio.fechaFin, hoy, aviso)
}

func TestEvaluarConteosEstables(t *testing.T) {
	hoy := fecha(2024, 3, 15)
	socios := []socio{
		{"ana", ptr(fecha(2024, 3, 10))},   // vencida
		{"bruno", ptr(fecha(2024, 3, 18))}, // proxima
		{"carla", ptr(fecha(2024, 6, 1))},  // vigente
		{"dario", nil},                     // sin membresia
		{"elena", ptr(fecha(2024, 3, 22))}, // proxima (limite)
	}

	resultados, conteos := evaluarSocios(socios, hoy, 7)
	require.Len(t, resultados, 5)

	assert.Equal(t, 5, conteos.Total)
	assert.Equal(t, 1, conteos.Vigentes)
	assert.Equal(t, 2, conteos.Proximas)
	assert.Equal(t, 1, conteos.Vencidas)
	assert.Equal(t, 1, conteos.SinMembresia)

	// Los conteos no dependen del filtro que se aplique después.
	for _, cat := range []Categoria{CategoriaTodas, CategoriaVigentes, CategoriaVencidas, CategoriaSinMembresia, CategoriaProximas} {
		_, c := evaluarSocios(socios, hoy, 7)
		assert.Equal(t, conteos, c, "conteos cambiaron para filtro %s", cat)
	}
}

// Propiedad: la suma de los cuatro estados siempre es el total.
func TestEvaluarSumaDeConteos(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hoy := fecha(2024, 3, 15)
		aviso := rapid.IntRange(0, 30).Draw(t, "aviso")
		n := rapid.IntRange(0, 50).Draw(t, "n")

		socios := make([]socio, n)
		for i := range socios {
			if rapid.Bool().Draw(t, "sinFecha") {
				continue
			}
			fin := hoy.AddDate(0, 0, rapid.IntRange(-100, 100).Draw(t, "offset"))
			socios[i].fin = &fin
		}

		_, c := evaluarSocios(socios, hoy, aviso)
		if c.Vigentes+c.Proximas+c.Vencidas+c.SinMembresia != c.Total {
			t.Fatalf("conteos no suman: %+v", c)
		}
		if c.Total != n {
			t.Fatalf("total = %d, esperaba %d", c.Total, n)
		}
	})
}

func TestFiltrar(t *testing.T) {
	hoy := fecha(2024, 3, 15)
	socios := []socio{
		{"ana", ptr(fecha(2024, 3, 10))},
		{"bruno", ptr(fecha(2024, 3, 18))},
		{"carla", ptr(fecha(2024, 6, 1))},
		{"dario", nil},
	}
	resultados, _ := evaluarSocios(socios, hoy, 7)

	nombres := func(rs []Resultado[socio]) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.Item.nombre
		}
		return out
	}

	assert.ElementsMatch(t, []string{"ana", "bruno", "carla", "dario"}, nombres(Filtrar(resultados, CategoriaTodas)))
	// "vigentes" incluye las próximas a vencer: ambas dan acceso.
	assert.ElementsMatch(t, []string{"bruno", "carla"}, nombres(Filtrar(resultados, CategoriaVigentes)))
	assert.ElementsMatch(t, []string{"ana"}, nombres(Filtrar(resultados, CategoriaVencidas)))
	assert.ElementsMatch(t, []string{"dario"}, nombres(Filtrar(resultados, CategoriaSinMembresia)))
	assert.ElementsMatch(t, []string{"bruno"}, nombres(Filtrar(resultados, CategoriaProximas)))
}

func TestOrdenar(t *testing.T) {
	hoy := fecha(2024, 3, 15)

	t.Run("proximas por dias restantes ascendente", func(t *testing.T) {
		socios := []socio{
			{"ana", ptr(fecha(2024, 3, 20))},
			{"bruno", ptr(fecha(2024, 3, 16))},
			{"carla", ptr(fecha(2024, 3, 18))},
		}
		resultados, _ := evaluarSocios(socios, hoy, 7)
		Ordenar(resultados, CategoriaProximas, func(s socio) string { return s.nombre })

		assert.Equal(t, "bruno", resultados[0].Item.nombre)
		assert.Equal(t, "carla", resultados[1].Item.nombre)
		assert.Equal(t, "ana", resultados[2].Item.nombre)
	})

	t.Run("proximas: sin fecha al final", func(t *testing.T) {
		socios := []socio{
			{"dario", nil},
			{"bruno", ptr(fecha(2024, 3, 16))},
		}
		resultados, _ := evaluarSocios(socios, hoy, 7)
		Ordenar(resultados, CategoriaProximas, func(s socio) string { return s.nombre })

		assert.Equal(t, "bruno", resultados[0].Item.nombre)
		assert.Equal(t, "dario", resultados[1].Item.nombre)
	})

	t.Run("vencidas por fecha fin descendente", func(t *testing.T) {
		socios := []socio{
			{"ana", ptr(fecha(2024, 1, 1))},
			{"bruno", ptr(fecha(2024, 3, 14))},
			{"carla", ptr(fecha(2024, 2, 10))},
		}
		resultados, _ := evaluarSocios(socios, hoy, 7)
		Ordenar(resultados, CategoriaVencidas, func(s socio) string { return s.nombre })

		assert.Equal(t, "bruno", resultados[0].Item.nombre)
		assert.Equal(t, "carla", resultados[1].Item.nombre)
		assert.Equal(t, "ana", resultados[2].Item.nombre)
	})

	t.Run("por defecto: nombre ascendente", func(t *testing.T) {
		socios := []socio{
			{"carla", nil},
			{"ana", nil},
			{"bruno", nil},
		}
		resultados, _ := evaluarSocios(socios, hoy, 7)
		Ordenar(resultados, CategoriaTodas, func(s socio) string { return s.nombre })

		assert.Equal(t, "ana", resultados[0].Item.nombre)
		assert.Equal(t, "bruno", resultados[1].Item.nombre)
		assert.Equal(t, "carla", resultados[2].Item.nombre)
	})
}

func TestParseCategoria(t *testing.T) {
	cat, err := ParseCategoria("")
	require.NoError(t, err)
	assert.Equal(t, CategoriaTodas, cat)

	cat, err = ParseCategoria("proximas")
	require.NoError(t, err)
	assert.Equal(t, CategoriaProximas, cat)

	_, err = ParseCategoria("activas")
	assert.Error(t, err)
}

func intPtr(v int) *int { return &v }
