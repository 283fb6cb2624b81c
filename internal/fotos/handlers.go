package fotos

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"gymcontrol/internal/common"
	"gymcontrol/internal/features/usuarios"
	"gymcontrol/internal/web"
)

// rutaAvatar es el avatar que se sirve cuando el socio no tiene foto.
const rutaAvatar = "./static/img/default-avatar.svg"

type Handler struct {
	store    *Store
	usuarios *usuarios.Repository
}

func NewHandler(store *Store, usuariosRepo *usuarios.Repository) *Handler {
	return &Handler{store: store, usuarios: usuariosRepo}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/fotos")
	g.Get("/avatar", h.Avatar)
	g.Get("/verificar/:usuarioID", h.Verificar)
	g.Get("/:usuarioID", h.Servir)
	g.Post("/:usuarioID", h.Subir)
	g.Delete("/:usuarioID", h.Eliminar)
}

// Servir responde la foto del socio; sin foto cae al avatar por defecto
// en lugar de un 404, así las vistas no tienen que manejar el hueco.
func (h *Handler) Servir(c *fiber.Ctx) error {
	usuarioID, err := web.ParamID(c, "usuarioID")
	if err != nil {
		return web.Error(c, err)
	}

	ruta, err := h.store.Ruta(usuarioID)
	if err != nil {
		if errors.Is(err, common.ErrNoEncontrado) {
			return h.Avatar(c)
		}
		return web.Error(c, err)
	}

	c.Set(fiber.HeaderContentType, MIME(ruta))
	return c.SendFile(ruta)
}

func (h *Handler) Avatar(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendFile(rutaAvatar)
}

func (h *Handler) Verificar(c *fiber.Ctx) error {
	usuarioID, err := web.ParamID(c, "usuarioID")
	if err != nil {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"tiene_foto": h.store.Existe(usuarioID),
	})
}

// Subir recibe la foto en el campo multipart "foto" y refresca el flag
// derivado del socio.
func (h *Handler) Subir(c *fiber.Ctx) error {
	usuarioID, err := web.ParamID(c, "usuarioID")
	if err != nil {
		return web.Error(c, err)
	}

	if _, err := h.usuarios.PorID(c.Context(), usuarioID); err != nil {
		return web.Error(c, err)
	}

	fh, err := c.FormFile("foto")
	if err != nil {
		return web.Error(c, fmt.Errorf("%w: falta el campo multipart \"foto\": %v", common.ErrValidacion, err))
	}
	f, err := fh.Open()
	if err != nil {
		return web.Error(c, fmt.Errorf("%w: abriendo la foto subida: %v", common.ErrValidacion, err))
	}
	defer f.Close()

	datos, err := io.ReadAll(f)
	if err != nil {
		return web.Error(c, fmt.Errorf("%w: leyendo la foto subida: %v", common.ErrValidacion, err))
	}

	if _, err := h.store.Guardar(usuarioID, datos); err != nil {
		return web.Error(c, err)
	}
	if err := h.usuarios.Actualizar(c.Context(), usuarioID, bson.M{"tiene_foto": true}); err != nil {
		return web.Error(c, err)
	}

	log.WithField("usuario_id", usuarioID).Info("Foto actualizada")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

func (h *Handler) Eliminar(c *fiber.Ctx) error {
	usuarioID, err := web.ParamID(c, "usuarioID")
	if err != nil {
		return web.Error(c, err)
	}

	if err := h.store.Eliminar(usuarioID); err != nil {
		return web.Error(c, err)
	}
	if err := h.usuarios.Actualizar(c.Context(), usuarioID, bson.M{"tiene_foto": false}); err != nil &&
		!errors.Is(err, common.ErrNoEncontrado) {
		return web.Error(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
