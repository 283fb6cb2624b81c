// Package common: paginacion.go implementa la paginación estándar de los
// listados: page (base 1), page_size y total de páginas redondeado hacia
// arriba. El mismo sobre de respuesta se usa en todas las colecciones.
package common

// Paginacion describe una página de resultados. Total siempre se calcula
// sobre el conjunto completo que cumple el filtro, no sobre la página.
type Paginacion struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
}

// NuevaPaginacion normaliza los parámetros y calcula el total de páginas.
// page < 1 se corrige a 1; pageSize <= 0 toma el valor por defecto.
func NuevaPaginacion(total int64, page, pageSize, defaultPageSize int) Paginacion {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page < 1 {
		page = 1
	}
	return Paginacion{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}

// Skip devuelve el desplazamiento de la página para la consulta.
func (p Paginacion) Skip() int64 {
	return int64(p.Page-1) * int64(p.PageSize)
}

// Recortar devuelve la porción de items correspondiente a la página cuando
// el filtrado se hizo en memoria (listados por estado de membresía, que se
// clasifican en la aplicación y no en la base).
func Recortar[T any](items []T, p Paginacion) []T {
	inicio := p.Skip()
	if inicio >= int64(len(items)) {
		return []T{}
	}
	fin := inicio + int64(p.PageSize)
	if fin > int64(len(items)) {
		fin = int64(len(items))
	}
	return items[inicio:fin]
}
