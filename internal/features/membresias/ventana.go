package membresias

import (
	"time"

	"gymcontrol/internal/common"
)

// CalcularVentana deriva la ventana de una membresía nueva: la fecha fin
// es el inicio más la duración del plan, ambas truncadas a medianoche.
// Vale igual para la venta y para la renovación: la ventana depende solo
// de su inicio y su duración, la fecha fin de la membresía anterior no
// suma días.
func CalcularVentana(fechaInicio time.Time, duracionDias int) (inicio, fin time.Time) {
	inicio = common.TruncarDia(fechaInicio)
	fin = inicio.AddDate(0, 0, duracionDias)
	return inicio, fin
}
