package membresias

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"gymcontrol/internal/common"
	"gymcontrol/internal/config"
	"gymcontrol/internal/features/planes"
	"gymcontrol/internal/features/usuarios"
)

// MetodoPagoDefault se asume cuando la solicitud no trae método de pago.
const MetodoPagoDefault = "Efectivo"

type Service struct {
	repo     *Repository
	usuarios *usuarios.Repository
	planes   *planes.Repository
	cfg      *config.Config
	locks    *locksPorUsuario
}

func NewService(repo *Repository, usuariosRepo *usuarios.Repository, planesRepo *planes.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		usuarios: usuariosRepo,
		planes:   planesRepo,
		cfg:      cfg,
		locks:    newLocksPorUsuario(),
	}
}

// Crear vende una membresía nueva. Si el socio tenía una vigente, queda
// apagada; la ventana del socio pasa a ser la de la membresía nueva.
func (s *Service) Crear(ctx context.Context, req CrearRequest) (*Membresia, error) {
	u, err := s.usuarios.PorID(ctx, req.UsuarioID)
	if err != nil {
		return nil, err
	}
	if !u.Activo {
		return nil, fmt.Errorf("usuario activo %d: %w", req.UsuarioID, common.ErrNoEncontrado)
	}

	plan, err := s.planes.PorID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.Activo {
		return nil, fmt.Errorf("plan activo %s: %w", req.PlanID, common.ErrNoEncontrado)
	}

	loc := s.cfg.Location()
	hoy := time.Now().In(loc)
	fechaInicio := hoy
	if req.FechaInicio != "" {
		fechaInicio, err = common.ParseFecha(req.FechaInicio, loc)
		if err != nil {
			return nil, err
		}
	}
	inicio, fin := CalcularVentana(fechaInicio, plan.DuracionDias)
	// Una venta retroactiva puede nacer ya vencida
	vigente := !fin.Before(common.TruncarDia(hoy))

	precio := req.PrecioPagado
	if precio == 0 {
		precio = plan.Precio
	}
	metodo := req.MetodoPago
	if metodo == "" {
		metodo = MetodoPagoDefault
	}

	// Serializado por socio: la venta y la renovación comparten la
	// misma sección crítica.
	lock := s.locks.para(req.UsuarioID)
	lock.Lock()
	defer lock.Unlock()

	if anterior, err := s.repo.VigenteDeUsuario(ctx, req.UsuarioID); err == nil {
		if err := s.repo.MarcarNoVigente(ctx, anterior.ID); err != nil &&
			!errors.Is(err, common.ErrRenovacionConcurrente) {
			return nil, err
		}
	} else if !errors.Is(err, common.ErrNoEncontrado) {
		return nil, err
	}

	ahora := time.Now()
	m := &Membresia{
		UsuarioID:     u.ID,
		UsuarioNombre: u.NombreCompleto(),
		PlanID:        plan.ID.Hex(),
		PlanNombre:    plan.Nombre,
		DuracionDias:  plan.DuracionDias,
		FechaInicio:   inicio,
		FechaFin:      fin,
		Vigente:       vigente,
		Activo:        true,
		PrecioPagado:  precio,
		MetodoPago:    metodo,
		Notas:         req.Notas,
		CreatedAt:     ahora,
		UpdatedAt:     ahora,
	}
	if err := s.repo.Crear(ctx, m); err != nil {
		return nil, err
	}

	if err := s.actualizarVentanaUsuario(ctx, u.ID, &inicio, &fin); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"usuario_id": u.ID,
		"plan":       plan.Nombre,
		"fecha_fin":  fin.Format(common.FormatoFecha),
	}).Info("Membresía creada")
	return m, nil
}

// Renovar reemplaza la membresía dada por una nueva que corre desde la
// fecha pedida, u hoy si el pedido no trae fecha. La ventana nueva es
// inicio más duración del plan; la fecha fin de la anterior no suma días.
//
// La secuencia es: apagar la anterior con un update condicionado a que
// siga vigente, crear la sucesora y, si el alta falla, restaurar la
// anterior. Si el update condicional no encuentra nada es que otra
// renovación ganó la carrera y se devuelve ErrRenovacionConcurrente.
func (s *Service) Renovar(ctx context.Context, id string, req RenovarRequest) (*Membresia, error) {
	anterior, err := s.repo.PorID(ctx, id)
	if err != nil {
		return nil, err
	}

	lock := s.locks.para(anterior.UsuarioID)
	lock.Lock()
	defer lock.Unlock()

	// Condiciones del plan de la sucesora: el pedido puede cambiar de
	// plan; si no, se reusan las condiciones congeladas en la anterior.
	planID := anterior.PlanID
	planNombre := anterior.PlanNombre
	duracion := anterior.DuracionDias
	precio := req.PrecioPagado
	if req.PlanID != "" {
		plan, err := s.planes.PorID(ctx, req.PlanID)
		if err != nil {
			return nil, err
		}
		planID = plan.ID.Hex()
		planNombre = plan.Nombre
		duracion = plan.DuracionDias
		if precio == 0 {
			precio = plan.Precio
		}
	} else if precio == 0 {
		precio = anterior.PrecioPagado
	}

	loc := s.cfg.Location()
	hoy := time.Now().In(loc)
	fechaInicio := hoy
	if req.FechaInicio != "" {
		fechaInicio, err = common.ParseFecha(req.FechaInicio, loc)
		if err != nil {
			return nil, err
		}
	}
	inicio, fin := CalcularVentana(fechaInicio, duracion)
	vigente := !fin.Before(common.TruncarDia(hoy))

	if err := s.repo.MarcarNoVigente(ctx, anterior.ID); err != nil {
		return nil, err
	}

	metodo := req.MetodoPago
	if metodo == "" {
		metodo = MetodoPagoDefault
	}

	ahora := time.Now()
	sucesora := &Membresia{
		UsuarioID:     anterior.UsuarioID,
		UsuarioNombre: anterior.UsuarioNombre,
		PlanID:        planID,
		PlanNombre:    planNombre,
		DuracionDias:  duracion,
		FechaInicio:   inicio,
		FechaFin:      fin,
		Vigente:       vigente,
		Activo:        true,
		PrecioPagado:  precio,
		MetodoPago:    metodo,
		Notas:         req.Notas,
		CreatedAt:     ahora,
		UpdatedAt:     ahora,
	}
	if err := s.repo.Crear(ctx, sucesora); err != nil {
		// Compensación: la anterior vuelve a quedar vigente para no
		// dejar al socio sin membresía por un fallo del alta.
		if restErr := s.repo.RestaurarVigente(ctx, anterior.ID); restErr != nil {
			log.WithFields(log.Fields{
				"membresia_id": anterior.ID.Hex(),
				"error":        restErr,
			}).Error("No se pudo restaurar la membresía tras fallar la renovación")
		}
		return nil, err
	}

	if err := s.actualizarVentanaUsuario(ctx, anterior.UsuarioID, &inicio, &fin); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"usuario_id": anterior.UsuarioID,
		"anterior":   anterior.ID.Hex(),
		"sucesora":   sucesora.ID.Hex(),
		"fecha_fin":  fin.Format(common.FormatoFecha),
	}).Info("Membresía renovada")
	return sucesora, nil
}

// Cancelar apaga la membresía y, si era la vigente del socio, cierra la
// ventana del socio.
func (s *Service) Cancelar(ctx context.Context, id, motivo string) error {
	m, err := s.repo.PorID(ctx, id)
	if err != nil {
		return err
	}

	lock := s.locks.para(m.UsuarioID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.Cancelar(ctx, m.ID, motivo); err != nil {
		return err
	}
	if m.Vigente {
		if err := s.actualizarVentanaUsuario(ctx, m.UsuarioID, nil, nil); err != nil {
			return err
		}
	}

	log.WithFields(log.Fields{
		"membresia_id": m.ID.Hex(),
		"usuario_id":   m.UsuarioID,
	}).Info("Membresía cancelada")
	return nil
}

func (s *Service) PorID(ctx context.Context, id string) (*Membresia, error) {
	return s.repo.PorID(ctx, id)
}

func (s *Service) PorUsuario(ctx context.Context, usuarioID int) ([]*Membresia, error) {
	return s.repo.PorUsuario(ctx, usuarioID)
}

func (s *Service) VigenteDeUsuario(ctx context.Context, usuarioID int) (*Membresia, error) {
	return s.repo.VigenteDeUsuario(ctx, usuarioID)
}

// Listado es una página de membresías más los datos de paginación.
type Listado struct {
	Membresias []*Membresia      `json:"membresias"`
	Paginacion common.Paginacion `json:"pagination"`
}

// Listar devuelve una página de membresías por filtro: todas, vigentes,
// vencidas o próximas a vencer dentro de la ventana de aviso.
func (s *Service) Listar(ctx context.Context, filtro string, diasAviso, page, pageSize int) (*Listado, error) {
	if diasAviso <= 0 {
		diasAviso = s.cfg.EstadoDiasAviso
	}
	hoy := common.TruncarDia(time.Now().In(s.cfg.Location()))

	var query bson.M
	switch filtro {
	case "", "todas":
		query = bson.M{}
	case "vigentes":
		query = bson.M{"vigente": true}
	case "vencidas":
		query = bson.M{"fecha_fin": bson.M{"$lt": hoy}, "activo": true}
	case "proximas":
		query = bson.M{
			"vigente":   true,
			"fecha_fin": bson.M{"$gte": hoy, "$lte": hoy.AddDate(0, 0, diasAviso)},
		}
	default:
		return nil, fmt.Errorf("%w: filtro de membresías desconocido: %q", common.ErrValidacion, filtro)
	}

	total, err := s.repo.Contar(ctx, query)
	if err != nil {
		return nil, err
	}
	pag := common.NuevaPaginacion(total, page, pageSize, s.cfg.ItemsPerPage)

	items, err := s.repo.Listar(ctx, query, pag.Skip(), int64(pag.PageSize))
	if err != nil {
		return nil, err
	}
	return &Listado{Membresias: items, Paginacion: pag}, nil
}

func (s *Service) Estadisticas(ctx context.Context) (*Estadisticas, error) {
	return s.repo.Estadisticas(ctx, time.Now().In(s.cfg.Location()))
}

func (s *Service) ContarVigentes(ctx context.Context) (int64, error) {
	return s.repo.ContarVigentes(ctx)
}

// RefrescarVigencia apaga las membresías vencidas. Lo invoca el job
// nocturno.
func (s *Service) RefrescarVigencia(ctx context.Context) (int64, error) {
	return s.repo.RefrescarVigencia(ctx, time.Now().In(s.cfg.Location()))
}

// actualizarVentanaUsuario sincroniza fecha_inicio/fecha_fin del socio
// con su membresía vigente. Con punteros nil cierra la ventana. Si el
// socio ya no está activo el desajuste se ignora.
func (s *Service) actualizarVentanaUsuario(ctx context.Context, usuarioID int, inicio, fin *time.Time) error {
	set := bson.M{"fecha_inicio": nil, "fecha_fin": nil}
	if inicio != nil {
		set["fecha_inicio"] = *inicio
	}
	if fin != nil {
		set["fecha_fin"] = *fin
	}
	if err := s.usuarios.Actualizar(ctx, usuarioID, set); err != nil {
		if errors.Is(err, common.ErrNoEncontrado) {
			return nil
		}
		return err
	}
	return nil
}
