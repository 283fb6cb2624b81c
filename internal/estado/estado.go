// Package estado implementa la derivación del estado de membresía.
//
// El estado NO se guarda en la base: es una función pura de la fecha de
// vencimiento, el día de hoy y la ventana de aviso. Un usuario está en
// exactamente uno de cuatro estados en cada instante:
//
//	sin_membresia    → no tiene fecha de vencimiento registrada
//	vigente          → vence después de la ventana de aviso
//	proxima_a_vencer → vence dentro de la ventana de aviso (inclusive)
//	vencida          → ya venció
//
// Las comparaciones son a nivel de día (medianoche): una membresía que
// vence hoy sigue vigente (próxima a vencer) durante todo el día.
package estado

import (
	"fmt"
	"sort"
	"time"

	"gymcontrol/internal/common"
)

// Estado es el estado derivado de la membresía de un usuario.
type Estado string

const (
	SinMembresia   Estado = "sin_membresia"
	Vigente        Estado = "vigente"
	ProximaAVencer Estado = "proxima_a_vencer"
	Vencida        Estado = "vencida"
)

// DiasAvisoPorDefecto es la ventana de aviso estándar.
const DiasAvisoPorDefecto = 7

// Clasificar calcula el estado y los días restantes (con signo; negativo
// si ya venció) para una fecha de vencimiento. diasRestantes es nil cuando
// no hay membresía.
//
// Regla de desempate: una membresía que vence exactamente a diasAviso días
// se clasifica proxima_a_vencer, no vigente (límite inclusivo).
func Clasificar(fechaFin *time.Time, hoy time.Time, diasAviso int) (Estado, *int) {
	if fechaFin == nil {
		return SinMembresia, nil
	}

	dias := common.DiasEntre(hoy, *fechaFin)

	switch {
	case dias < 0:
		return Vencida, &dias
	case dias <= diasAviso:
		return ProximaAVencer, &dias
	default:
		return Vigente, &dias
	}
}

// Categoria es el filtro de listado solicitado por el llamador.
type Categoria string

const (
	CategoriaTodas Categoria = "todas"
	// CategoriaVigentes incluye vigentes Y próximas a vencer: ambas dan
	// acceso al gimnasio.
	CategoriaVigentes     Categoria = "vigentes"
	CategoriaVencidas     Categoria = "vencidas"
	CategoriaSinMembresia Categoria = "sin_membresia"
	CategoriaProximas     Categoria = "proximas"
)

// ParseCategoria valida el parámetro de filtro. Cadena vacía equivale a
// "todas".
func ParseCategoria(s string) (Categoria, error) {
	switch Categoria(s) {
	case "", CategoriaTodas:
		return CategoriaTodas, nil
	case CategoriaVigentes, CategoriaVencidas, CategoriaSinMembresia, CategoriaProximas:
		return Categoria(s), nil
	default:
		return "", fmt.Errorf("filtro desconocido %q: %w", s, common.ErrValidacion)
	}
}

// Resultado es un elemento clasificado.
type Resultado[T any] struct {
	Item          T
	Estado        Estado
	FechaFin      *time.Time
	DiasRestantes *int
}

// Conteos agrega los totales por estado sobre el conjunto COMPLETO.
// La suma de los cuatro estados siempre es igual a Total, sin importar
// qué filtro esté viendo el llamador.
type Conteos struct {
	Total        int `json:"total"`
	Vigentes     int `json:"vigentes"`
	Proximas     int `json:"proximas_a_vencer"`
	Vencidas     int `json:"vencidas"`
	SinMembresia int `json:"sin_membresia"`
}

// Evaluar clasifica todos los elementos y acumula los conteos por estado.
// Se clasifica SIEMPRE el conjunto completo antes de filtrar: los conteos
// que acompañan una vista filtrada deben ser estables.
func Evaluar[T any](items []T, fechaFin func(T) *time.Time, hoy time.Time, diasAviso int) ([]Resultado[T], Conteos) {
	resultados := make([]Resultado[T], 0, len(items))
	var conteos Conteos

	for _, item := range items {
		ff := fechaFin(item)
		est, dias := Clasificar(ff, hoy, diasAviso)

		conteos.Total++
		switch est {
		case Vigente:
			conteos.Vigentes++
		case ProximaAVencer:
			conteos.Proximas++
		case Vencida:
			conteos.Vencidas++
		case SinMembresia:
			conteos.SinMembresia++
		}

		resultados = append(resultados, Resultado[T]{
			Item:          item,
			Estado:        est,
			FechaFin:      ff,
			DiasRestantes: dias,
		})
	}

	return resultados, conteos
}

// Filtrar devuelve los resultados que pertenecen a la categoría pedida.
func Filtrar[T any](resultados []Resultado[T], cat Categoria) []Resultado[T] {
	if cat == CategoriaTodas {
		return resultados
	}

	out := make([]Resultado[T], 0, len(resultados))
	for _, r := range resultados {
		switch cat {
		case CategoriaVigentes:
			if r.Estado == Vigente || r.Estado == ProximaAVencer {
				out = append(out, r)
			}
		case CategoriaVencidas:
			if r.Estado == Vencida {
				out = append(out, r)
			}
		case CategoriaSinMembresia:
			if r.Estado == SinMembresia {
				out = append(out, r)
			}
		case CategoriaProximas:
			if r.Estado == ProximaAVencer {
				out = append(out, r)
			}
		}
	}
	return out
}

// Ordenar aplica la política de orden de cada categoría:
//   - proximas: días restantes ascendente (lo más urgente primero; sin
//     valor al final)
//   - vencidas: fecha de vencimiento descendente (lo recién vencido primero)
//   - resto: nombre ascendente
func Ordenar[T any](resultados []Resultado[T], cat Categoria, nombre func(T) string) {
	switch cat {
	case CategoriaProximas:
		sort.SliceStable(resultados, func(i, j int) bool {
			a, b := resultados[i].DiasRestantes, resultados[j].DiasRestantes
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return *a < *b
		})
	case CategoriaVencidas:
		sort.SliceStable(resultados, func(i, j int) bool {
			a, b := resultados[i].FechaFin, resultados[j].FechaFin
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.After(*b)
		})
	default:
		sort.SliceStable(resultados, func(i, j int) bool {
			return nombre(resultados[i].Item) < nombre(resultados[j].Item)
		})
	}
}
