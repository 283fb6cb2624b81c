// Package usuarios: handlers.go expone las rutas HTTP de socios.
package usuarios

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

// RegisterRoutes registra las rutas del módulo bajo /usuarios. El GET de
// detalle no está acá: es un endpoint compuesto que cruza varios módulos
// y lo registra la aplicación.
func (h *Handler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/usuarios")
	g.Get("/", h.Index)
	g.Post("/", h.Crear)
	g.Get("/search", h.Buscar)
	g.Get("/stats", h.Estadisticas)
	g.Put("/:id", h.Actualizar)
	g.Delete("/:id", h.Eliminar)
}

// Index lista usuarios. Con ?q= hace búsqueda por texto; si no, lista por
// estado de membresía (?filtro=todas|vigentes|vencidas|sin_membresia|proximas,
// ?dias=N para la ventana de aviso, ?page y ?page_size para paginar).
func (h *Handler) Index(c *fiber.Ctx) error {
	if q := c.Query("q"); q != "" {
		encontrados, err := h.service.Buscar(c.Context(), q)
		if err != nil {
			return web.Error(c, err)
		}
		return c.JSON(fiber.Map{
			"success":  true,
			"usuarios": encontrados,
			"total":    len(encontrados),
		})
	}

	listado, err := h.service.ListarPorEstado(
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
		"usuarios":   listado.Usuarios,
		"conteos":    listado.Conteos,
		"pagination": listado.Paginacion,
	})
}

func (h *Handler) Crear(c *fiber.Ctx) error {
	var req CrearRequest
	if err := web.ParseBody(c, &req); err != nil {
		return web.Error(c, err)
	}

	u, err := h.service.Crear(c.Context(), req)
	if err != nil {
		return web.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"usuario": u,
	})
}

func (h *Handler) Actualizar(c *fiber.Ctx) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return web.Error(c, err)
	}

	var req ActualizarRequest
	if err := web.ParseBody(c, &req); err != nil {
		return web.Error(c, err)
	}

	u, err := h.service.Actualizar(c.Context(), id, req)
	if err != nil {
		return web.Error(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"usuario": u,
	})
}

func (h *Handler) Eliminar(c *fiber.Ctx) error {
	id, err := web.ParamID(c, "id")
	if err != nil {
		return web.Error(c, err)
	}

	if err := h.service.Eliminar(c.Context(), id); err != nil {
		return web.Error(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// Buscar es el endpoint de autocompletar: devuelve un payload compacto.
func (h *Handler) Buscar(c *fiber.Ctx) error {
	encontrados, err := h.service.Buscar(c.Context(), c.Query("q"))
	if err != nil {
		return web.Error(c, err)
	}

	results := make([]fiber.Map, 0, len(encontrados))
	for _, u := range encontrados {
		results = append(results, fiber.Map{
			"id":           u.ID,
			"nombre":       u.NombreCompleto(),
			"documento":    u.NumeroDocumento,
			"departamento": u.DepartamentoNombre,
		})
	}
	return c.JSON(results)
}

func (h *Handler) Estadisticas(c *fiber.Ctx) error {
	stats, err := h.service.Estadisticas(c.Context())
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"usuarios": stats,
	})
}
