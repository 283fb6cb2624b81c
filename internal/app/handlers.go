package app

import (
	"github.com/gofiber/fiber/v2"

	"gymcontrol/internal/web"
)

// Resumen es la raíz: health check más los conteos de la pantalla
// principal.
func (a *App) Resumen(c *fiber.Ctx) error {
	ctx := c.Context()

	total, activos, err := a.usuarios.Contar(ctx)
	if err != nil {
		return web.Error(c, err)
	}
	vigentes, err := a.membresias.ContarVigentes(ctx)
	if err != nil {
		return web.Error(c, err)
	}
	hoy, err := a.asistencias.ContarHoy(ctx)
	if err != nil {
		return web.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"service": "gymcontrol",
		"status":  "ok",
		"env":     a.Cfg.AppEnv,
		"resumen": fiber.Map{
			"usuarios_total":      total,
			"usuarios_activos":    activos,
			"membresias_vigentes": vigentes,
			"asistencias_hoy":     hoy,
		},
	})
}

// Tablero compone las estadísticas de todos los módulos en una sola
// respuesta para la pantalla principal.
func (a *App) Tablero(c *fiber.Ctx) error {
	ctx := c.Context()

	usuariosStats, err := a.usuarios.Estadisticas(ctx)
	if err != nil {
		return web.Error(c, err)
	}
	membresiasStats, err := a.membresias.Estadisticas(ctx)
	if err != nil {
		return web.Error(c, err)
	}
	asistenciasStats, err := a.asistencias.Estadisticas(ctx, "")
	if err != nil {
		return web.Error(c, err)
	}
	biometriaStats, err := a.biometria.Estadisticas(ctx)
	if err != nil {
		return web.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"usuarios":    usuariosStats,
		"membresias":  membresiasStats,
		"asistencias": asistenciasStats,
		"biometria":   biometriaStats,
	})
}

// DetalleUsuario junta en una respuesta todo lo que las fichas del socio
// muestran: datos con estado, historial de membresías, últimas
// asistencias y plantillas enroladas.
func (a *App) DetalleUsuario(c *fiber.Ctx) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return web.Error(c, err)
	}
	ctx := c.Context()

	u, err := a.usuarios.PorID(ctx, id)
	if err != nil {
		return web.Error(c, err)
	}
	historial, err := a.membresias.PorUsuario(ctx, id)
	if err != nil {
		return web.Error(c, err)
	}
	visitas, err := a.asistencias.Historial(ctx, id)
	if err != nil {
		return web.Error(c, err)
	}
	plantillas, err := a.biometria.PorUsuario(ctx, id)
	if err != nil {
		return web.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"usuario":     u,
		"membresias":  historial,
		"asistencias": visitas,
		"plantillas":  plantillas,
	})
}
