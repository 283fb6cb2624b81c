// Package common contiene utilidades compartidas por todo el proyecto.
// fechas.go agrupa la aritmética de fechas: truncado a medianoche,
// rangos de día para consultas y cálculo de edad.
package common

import (
	"fmt"
	"time"
)

// FormatoFecha es el formato de fecha de la API (YYYY-MM-DD).
const FormatoFecha = "2006-01-02"

// TruncarDia recorta la hora de t y devuelve la medianoche del mismo día
// en la misma zona horaria. Todas las comparaciones a nivel de día
// (vencimiento de membresías, asistencias) pasan por aquí: así una
// membresía que vence "hoy" cuenta como vigente el día completo.
func TruncarDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RangoDia devuelve [medianoche del día, medianoche del día siguiente).
// El límite superior es exclusivo.
func RangoDia(t time.Time) (inicio, fin time.Time) {
	inicio = TruncarDia(t)
	return inicio, inicio.AddDate(0, 0, 1)
}

// DiasEntre devuelve la cantidad de días calendario de desde a hasta,
// con signo (negativo si hasta es anterior). Se comparan los componentes
// año/mes/día re-anclados en UTC: restar medianoches locales truncaría
// un día entero cuando el rango cruza un cambio de horario de verano
// (día de 23 horas).
func DiasEntre(desde, hasta time.Time) int {
	d := time.Date(desde.Year(), desde.Month(), desde.Day(), 0, 0, 0, 0, time.UTC)
	h := time.Date(hasta.Year(), hasta.Month(), hasta.Day(), 0, 0, 0, 0, time.UTC)
	return int(h.Sub(d).Hours() / 24)
}

// ParseFecha interpreta una fecha YYYY-MM-DD en la zona horaria dada.
func ParseFecha(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(FormatoFecha, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: %w", s, ErrValidacion)
	}
	return t, nil
}

// ZonaHoraria devuelve la zona de t en la forma que aceptan los
// operadores de fecha de MongoDB ($hour, $dateToString): el nombre IANA
// cuando se conoce, o el desplazamiento numérico si la zona es anónima.
func ZonaHoraria(t time.Time) string {
	if nombre := t.Location().String(); nombre != "" && nombre != "Local" {
		return nombre
	}
	return t.Format("-07:00")
}

// CalcularEdad devuelve la edad en años cumplidos a la fecha hoy.
// Devuelve nil si no hay fecha de nacimiento.
func CalcularEdad(fechaNacimiento *time.Time, hoy time.Time) *int {
	if fechaNacimiento == nil {
		return nil
	}
	edad := hoy.Year() - fechaNacimiento.Year()
	// Todavía no llegó el cumpleaños de este año
	if hoy.Month() < fechaNacimiento.Month() ||
		(hoy.Month() == fechaNacimiento.Month() && hoy.Day() < fechaNacimiento.Day()) {
		edad--
	}
	return &edad
}
