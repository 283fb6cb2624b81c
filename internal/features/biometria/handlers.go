package biometria

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

// RegisterRoutes registra las rutas de biometría. Alta y verificación
// llevan el limitador de los dispositivos.
func (h *Handler) RegisterRoutes(r fiber.Router, dispositivoLimiter fiber.Handler) {
	g := r.Group("/biometria")
	g.Get("/", h.Listar)
	g.Get("/stats", h.Estadisticas)
	g.Get("/usuario/:usuarioID", h.PorUsuario)
	g.Post("/registrar", dispositivoLimiter, h.Registrar)
	g.Post("/verificar", dispositivoLimiter, h.Verificar)
}

// Listar acepta ?tipo=huella|rostro.
func (h *Handler) Listar(c *fiber.Ctx) error {
	lista, err := h.service.Listar(c.Context(), c.Query("tipo"))
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"plantillas": lista,
		"total":      len(lista),
	})
}

func (h *Handler) PorUsuario(c *fiber.Ctx) error {
	usuarioID, err := web.ParamID(c, "usuarioID")
	if err != nil {
		return web.Error(c, err)
	}

	lista, err := h.service.PorUsuario(c.Context(), usuarioID)
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"plantillas": lista,
		"total":      len(lista),
	})
}

func (h *Handler) Registrar(c *fiber.Ctx) error {
	var req RegistrarRequest
	if err := web.ParseBody(c, &req); err != nil {
		return web.Error(c, err)
	}

	p, err := h.service.Registrar(c.Context(), req)
	if err != nil {
		return web.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"plantilla": p,
	})
}

func (h *Handler) Verificar(c *fiber.Ctx) error {
	var req VerificarRequest
	if err := web.ParseBody(c, &req); err != nil {
		return web.Error(c, err)
	}

	v, err := h.service.Verificar(c.Context(), req)
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"verificacion": v,
	})
}

func (h *Handler) Estadisticas(c *fiber.Ctx) error {
	stats, err := h.service.Estadisticas(c.Context())
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"estadisticas": stats,
	})
}
