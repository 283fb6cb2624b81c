package planes

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

func (h *Handler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/planes")
	g.Get("/", h.Listar)
	g.Post("/", h.Crear)
	g.Get("/:id", h.Detalle)
	g.Put("/:id", h.Actualizar)
	g.Delete("/:id", h.Eliminar)
}

func (h *Handler) Listar(c *fiber.Ctx) error {
	lista, err := h.service.Listar(c.Context())
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"planes":  lista,
		"total":   len(lista),
	})
}

func (h *Handler) Crear(c *fiber.Ctx) error {
	var req CrearRequest
	if err := web.ParseBody(c, &req); err != nil {
		return web.Error(c, err)
	}

	p, err := h.service.Crear(c.Context(), req)
	if err != nil {
		return web.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"plan":    p,
	})
}

func (h *Handler) Detalle(c *fiber.Ctx) error {
	p, err := h.service.PorID(c.Context(), c.Params("id"))
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"plan":    p,
	})
}

func (h *Handler) Actualizar(c *fiber.Ctx) error {
	var req ActualizarRequest
	if err := web.ParseBody(c, &req); err != nil {
		return web.Error(c, err)
	}

	p, err := h.service.Actualizar(c.Context(), c.Params("id"), req)
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"plan":    p,
	})
}

func (h *Handler) Eliminar(c *fiber.Ctx) error {
	if err := h.service.Eliminar(c.Context(), c.Params("id")); err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
