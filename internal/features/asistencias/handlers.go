package asistencias

import (
	"github.com/gofiber/fiber/v2"

	"gymcontrol/internal/web"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registra las rutas de asistencias. El alta recibe el
// limitador aparte porque la golpean los lectores biométricos.
func (h *Handler) RegisterRoutes(r fiber.Router, registrarLimiter fiber.Handler) {
	g := r.Group("/asistencias")
	g.Get("/", h.Listar)
	g.Post("/", registrarLimiter, h.Registrar)
	g.Get("/hoy", h.Hoy)
	g.Get("/estadisticas", h.Estadisticas)
	g.Get("/historial/:usuarioID", h.Historial)
	g.Get("/verificar/:usuarioID", h.Verificar)
	g.Delete("/:id", h.Eliminar)
}

// Listar acepta ?fecha=YYYY-MM-DD; sin parámetro lista el día en curso.
func (h *Handler) Listar(c *fiber.Ctx) error {
	lista, err := h.service.PorFecha(c.Context(), c.Query("fecha"))
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"asistencias": lista,
		"total":       len(lista),
	})
}

func (h *Handler) Registrar(c *fiber.Ctx) error {
	var req RegistrarRequest
	if err := web.ParseBody(c, &req); err != nil {
		return web.Error(c, err)
	}

	a, err := h.service.Registrar(c.Context(), req)
	if err != nil {
		return web.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"asistencia": a,
	})
}

func (h *Handler) Hoy(c *fiber.Ctx) error {
	lista, err := h.service.Hoy(c.Context())
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"asistencias": lista,
		"total":       len(lista),
	})
}

func (h *Handler) Historial(c *fiber.Ctx) error {
	usuarioID, err := web.ParamID(c, "usuarioID")
	if err != nil {
		return web.Error(c, err)
	}

	historial, err := h.service.Historial(c.Context(), usuarioID)
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"asistencias": historial,
		"total":       len(historial),
	})
}

// Verificar responde si el socio ya marcó ingreso hoy, para que el
// frontal del lector no duplique registros.
func (h *Handler) Verificar(c *fiber.Ctx) error {
	usuarioID, err := web.ParamID(c, "usuarioID")
	if err != nil {
		return web.Error(c, err)
	}

	ya, err := h.service.YaRegistroHoy(c.Context(), usuarioID)
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"ya_registrado": ya,
	})
}

func (h *Handler) Eliminar(c *fiber.Ctx) error {
	if err := h.service.Eliminar(c.Context(), c.Params("id")); err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Estadisticas acepta ?fecha=YYYY-MM-DD para la distribución horaria;
// sin parámetro usa el día en curso.
func (h *Handler) Estadisticas(c *fiber.Ctx) error {
	stats, err := h.service.Estadisticas(c.Context(), c.Query("fecha"))
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"estadisticas": stats,
	})
}
