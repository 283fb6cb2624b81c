package membresias

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
	g := r.Group("/membresias")
	g.Get("/", h.Listar)
	g.Post("/", h.Crear)
	g.Get("/reportes", h.Reportes)
	g.Get("/usuario/:usuarioID", h.PorUsuario)
	g.Get("/vigente/:usuarioID", h.Vigente)
	g.Get("/:id", h.Detalle)
	g.Post("/:id/renovar", h.Renovar)
	g.Post("/:id/cancelar", h.Cancelar)
}

// Listar acepta ?filtro=todas|vigentes|vencidas|proximas, ?dias=N para
// la ventana de aviso del filtro "proximas" y ?page/?page_size.
func (h *Handler) Listar(c *fiber.Ctx) error {
	listado, err := h.service.Listar(
		c.Context(),
		c.Query("filtro"),
		c.QueryInt("dias"),
		c.QueryInt("page", 1),
		c.QueryInt("page_size"),
	)
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"membresias": listado.Membresias,
		"pagination": listado.Paginacion,
	})
}

func (h *Handler) Crear(c *fiber.Ctx) error {
	var req CrearRequest
	if err := web.ParseBody(c, &req); err != nil {
		return web.Error(c, err)
	}

	m, err := h.service.Crear(c.Context(), req)
	if err != nil {
		return web.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"membresia": m,
	})
}

func (h *Handler) Detalle(c *fiber.Ctx) error {
	m, err := h.service.PorID(c.Context(), c.Params("id"))
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"membresia": m,
	})
}

func (h *Handler) PorUsuario(c *fiber.Ctx) error {
	usuarioID, err := web.ParamID(c, "usuarioID")
	if err != nil {
		return web.Error(c, err)
	}

	historial, err := h.service.PorUsuario(c.Context(), usuarioID)
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"membresias": historial,
		"total":      len(historial),
	})
}

func (h *Handler) Vigente(c *fiber.Ctx) error {
	usuarioID, err := web.ParamID(c, "usuarioID")
	if err != nil {
		return web.Error(c, err)
	}

	m, err := h.service.VigenteDeUsuario(c.Context(), usuarioID)
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"membresia": m,
	})
}

func (h *Handler) Renovar(c *fiber.Ctx) error {
	// Sin cuerpo se renueva con el mismo plan y precio.
	var req RenovarRequest
	if len(c.Body()) > 0 {
		if err := web.ParseBody(c, &req); err != nil {
			return web.Error(c, err)
		}
	}

	m, err := h.service.Renovar(c.Context(), c.Params("id"), req)
	if err != nil {
		return web.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"membresia": m,
	})
}

func (h *Handler) Cancelar(c *fiber.Ctx) error {
	// El motivo es opcional; el cuerpo puede venir vacío.
	var req struct {
		Motivo string `json:"motivo"`
	}
	if len(c.Body()) > 0 {
		if err := web.ParseBody(c, &req); err != nil {
			return web.Error(c, err)
		}
	}

	if err := h.service.Cancelar(c.Context(), c.Params("id"), req.Motivo); err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) Reportes(c *fiber.Ctx) error {
	stats, err := h.service.Estadisticas(c.Context())
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"reportes": stats,
	})
}
