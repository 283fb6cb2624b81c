// Package usuarios: service.go contiene la lógica de negocio de los
// socios: armado de documentos nuevos, parches de edición, clasificación
// por estado de membresía y paginación de los listados.
package usuarios

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"gymcontrol/internal/common"
	"gymcontrol/internal/config"
	"gymcontrol/internal/estado"
	"gymcontrol/internal/features/departamentos"
)

// Service coordina el repositorio de usuarios con el catálogo de
// departamentos (para denormalizar el nombre al escribir) y el motor de
// estados.
type Service struct {
	repo   *Repository
	deptos *departamentos.Service // Resolución de nombre de departamento
	cfg    *config.Config
}

func NewService(repo *Repository, deptos *departamentos.Service, cfg *config.Config) *Service {
	return &Service{repo: repo, deptos: deptos, cfg: cfg}
}

// Crear da de alta un socio nuevo.
//
// El identificador viene del llamador; el sistema inicializa los flags
// derivados en falso/cero, activo en verdadero y ambos timestamps con el
// mismo instante de creación.
func (s *Service) Crear(ctx context.Context, req CrearRequest) (*Usuario, error) {
	loc := s.cfg.Location()

	fechaNacimiento, err := fechaOpcional(req.FechaNacimiento, loc)
	if err != nil {
		return nil, err
	}
	fechaInicio, err := fechaOpcional(req.FechaInicio, loc)
	if err != nil {
		return nil, err
	}
	fechaFin, err := fechaOpcional(req.FechaFin, loc)
	if err != nil {
		return nil, err
	}

	ahora := time.Now()
	u := &Usuario{
		ID:              req.ID,
		Nombre:          req.Nombre,
		Apellido:        req.Apellido,
		Codigo:          req.Codigo,
		Genero:          req.Genero,
		FechaNacimiento: fechaNacimiento,
		FechaInicio:     fechaInicio,
		FechaFin:        fechaFin,
		Celular:         req.Celular,
		Email:           req.Email,
		TipoDocumento:   req.TipoDocumento,
		NumeroDocumento: req.NumeroDocumento,
		Activo:          true,
		CreatedAt:       ahora,
		UpdatedAt:       ahora,
	}

	// Denormalizamos el nombre del departamento al momento de escribir;
	// no se vuelve a sincronizar después.
	if req.DepartamentoID != "" {
		depto, err := s.deptos.PorID(ctx, req.DepartamentoID)
		if err != nil {
			return nil, fmt.Errorf("departamento del usuario: %w", err)
		}
		u.DepartamentoID = req.DepartamentoID
		u.DepartamentoNombre = depto.Nombre
	}

	if err := s.repo.Crear(ctx, u); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"usuario_id": u.ID,
		"nombre":     u.NombreCompleto(),
	}).Info("Usuario creado")

	return u, nil
}

// construirParche convierte el DTO de edición en el $set de la base.
// Solo entran los campos presentes (puntero no nil); los campos
// administrados por el sistema quedan fuera por construcción.
func construirParche(req ActualizarRequest, loc *time.Location) (bson.M, error) {
	set := bson.M{}

	textos := map[string]*string{
		"nombre":           req.Nombre,
		"apellido":         req.Apellido,
		"codigo":           req.Codigo,
		"genero":           req.Genero,
		"celular":          req.Celular,
		"email":            req.Email,
		"tipo_documento":   req.TipoDocumento,
		"numero_documento": req.NumeroDocumento,
	}
	for campo, valor := range textos {
		if valor != nil {
			set[campo] = *valor
		}
	}

	fechas := map[string]*string{
		"fecha_nacimiento": req.FechaNacimiento,
		"fecha_inicio":     req.FechaInicio,
		"fecha_fin":        req.FechaFin,
	}
	for campo, valor := range fechas {
		if valor == nil {
			continue
		}
		if *valor == "" {
			// Cadena vacía = quitar la fecha (p. ej. cerrar la ventana
			// de membresía).
			set[campo] = nil
			continue
		}
		f, err := common.ParseFecha(*valor, loc)
		if err != nil {
			return nil, err
		}
		set[campo] = f
	}

	return set, nil
}

// Actualizar aplica un parche parcial sobre un usuario activo.
func (s *Service) Actualizar(ctx context.Context, id int, req ActualizarRequest) (*Usuario, error) {
	set, err := construirParche(req, s.cfg.Location())
	if err != nil {
		return nil, err
	}

	if req.DepartamentoID != nil {
		set["departamento_id"] = *req.DepartamentoID
		set["departamento_nombre"] = ""
		if *req.DepartamentoID != "" {
			depto, err := s.deptos.PorID(ctx, *req.DepartamentoID)
			if err != nil {
				return nil, fmt.Errorf("departamento del usuario: %w", err)
			}
			set["departamento_nombre"] = depto.Nombre
		}
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("el parche no contiene campos: %w", common.ErrValidacion)
	}

	if err := s.repo.Actualizar(ctx, id, set); err != nil {
		return nil, err
	}

	log.WithField("usuario_id", id).Info("Usuario actualizado")
	return s.repo.PorID(ctx, id)
}

// Eliminar hace la baja lógica del usuario. Es idempotente.
func (s *Service) Eliminar(ctx context.Context, id int) error {
	if err := s.repo.Eliminar(ctx, id); err != nil {
		return err
	}
	log.WithField("usuario_id", id).Info("Usuario dado de baja")
	return nil
}

// PorID devuelve el usuario con su edad calculada.
func (s *Service) PorID(ctx context.Context, id int) (*ConEstado, error) {
	u, err := s.repo.PorID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.conEstado(u, time.Now().In(s.cfg.Location())), nil
}

// Buscar hace la búsqueda por texto (hasta 50 resultados).
func (s *Service) Buscar(ctx context.Context, q string) ([]*Usuario, error) {
	return s.repo.Buscar(ctx, q)
}

// Listado es la respuesta del listado por estado: la página pedida, los
// conteos por estado sobre el conjunto COMPLETO de activos y los datos de
// paginación.
type Listado struct {
	Usuarios   []ConEstado       `json:"usuarios"`
	Conteos    estado.Conteos    `json:"conteos"`
	Paginacion common.Paginacion `json:"pagination"`
}

// ListarPorEstado clasifica todos los usuarios activos, filtra por la
// categoría pedida, ordena según la política de la categoría y pagina.
//
// diasAviso <= 0 usa la ventana configurada. Los conteos se calculan
// siempre ANTES de filtrar, así las tarjetas de resumen no cambian según
// la vista.
func (s *Service) ListarPorEstado(ctx context.Context, filtro string, diasAviso, page, pageSize int) (*Listado, error) {
	cat, err := estado.ParseCategoria(filtro)
	if err != nil {
		return nil, err
	}
	if diasAviso <= 0 {
		diasAviso = s.cfg.EstadoDiasAviso
	}

	activos, err := s.repo.Activos(ctx)
	if err != nil {
		return nil, err
	}

	hoy := time.Now().In(s.cfg.Location())
	resultados, conteos := estado.Evaluar(activos, func(u *Usuario) *time.Time { return u.FechaFin }, hoy, diasAviso)
	filtrados := estado.Filtrar(resultados, cat)
	estado.Ordenar(filtrados, cat, func(u *Usuario) string { return u.NombreCompleto() })

	pag := common.NuevaPaginacion(int64(len(filtrados)), page, pageSize, s.cfg.ItemsPerPage)
	pagina := common.Recortar(filtrados, pag)

	items := make([]ConEstado, 0, len(pagina))
	for _, r := range pagina {
		items = append(items, ConEstado{
			Usuario:       r.Item,
			Estado:        string(r.Estado),
			DiasRestantes: r.DiasRestantes,
			Edad:          common.CalcularEdad(r.Item.FechaNacimiento, hoy),
		})
	}

	return &Listado{Usuarios: items, Conteos: conteos, Paginacion: pag}, nil
}

// Estadisticas delega en el repositorio.
func (s *Service) Estadisticas(ctx context.Context) (*Estadisticas, error) {
	return s.repo.Estadisticas(ctx)
}

// Contar devuelve (total, activos) para el resumen de la raíz.
func (s *Service) Contar(ctx context.Context) (int64, int64, error) {
	return s.repo.Contar(ctx)
}

func (s *Service) conEstado(u *Usuario, hoy time.Time) *ConEstado {
	est, dias := estado.Clasificar(u.FechaFin, hoy, s.cfg.EstadoDiasAviso)
	return &ConEstado{
		Usuario:       u,
		Estado:        string(est),
		DiasRestantes: dias,
		Edad:          common.CalcularEdad(u.FechaNacimiento, hoy),
	}
}

func fechaOpcional(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	f, err := common.ParseFecha(s, loc)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
