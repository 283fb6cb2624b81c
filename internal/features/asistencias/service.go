package asistencias

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"gymcontrol/internal/common"
	"gymcontrol/internal/config"
	"gymcontrol/internal/features/usuarios"
)

type Service struct {
	repo     *Repository
	usuarios *usuarios.Repository
	cfg      *config.Config
}

func NewService(repo *Repository, usuariosRepo *usuarios.Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, usuarios: usuariosRepo, cfg: cfg}
}

// Registrar anota el check-in del socio. El socio tiene que existir y
// estar activo; el nombre y el departamento se copian como instantánea
// al registro.
func (s *Service) Registrar(ctx context.Context, req RegistrarRequest) (*Asistencia, error) {
	u, err := s.usuarios.PorID(ctx, req.UsuarioID)
	if err != nil {
		return nil, err
	}
	if !u.Activo {
		return nil, fmt.Errorf("usuario activo %d: %w", req.UsuarioID, common.ErrNoEncontrado)
	}

	tipo := req.TipoAcceso
	if tipo == "" {
		tipo = "manual"
	}

	ahora := time.Now().In(s.cfg.Location())
	a := &Asistencia{
		UsuarioID:          u.ID,
		UsuarioNombre:      u.NombreCompleto(),
		DepartamentoNombre: u.DepartamentoNombre,
		Fecha:              ahora,
		TipoAcceso:         tipo,
		Dispositivo:        req.Dispositivo,
		Notas:              req.Notas,
		CreatedAt:          ahora,
	}
	if err := s.repo.Registrar(ctx, a); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"usuario_id":  u.ID,
		"tipo_acceso": tipo,
	}).Info("Asistencia registrada")
	return a, nil
}

// Hoy lista los ingresos del día en curso.
func (s *Service) Hoy(ctx context.Context) ([]*Asistencia, error) {
	return s.repo.PorFecha(ctx, time.Now().In(s.cfg.Location()))
}

// PorFecha lista los ingresos de una fecha YYYY-MM-DD; vacía es hoy.
func (s *Service) PorFecha(ctx context.Context, fecha string) ([]*Asistencia, error) {
	dia := time.Now().In(s.cfg.Location())
	if fecha != "" {
		var err error
		dia, err = common.ParseFecha(fecha, s.cfg.Location())
		if err != nil {
			return nil, err
		}
	}
	return s.repo.PorFecha(ctx, dia)
}

func (s *Service) Historial(ctx context.Context, usuarioID int) ([]*Asistencia, error) {
	if _, err := s.usuarios.PorID(ctx, usuarioID); err != nil {
		return nil, err
	}
	return s.repo.PorUsuario(ctx, usuarioID)
}

// YaRegistroHoy responde si el socio ya marcó ingreso hoy.
func (s *Service) YaRegistroHoy(ctx context.Context, usuarioID int) (bool, error) {
	return s.repo.YaRegistroHoy(ctx, usuarioID, time.Now().In(s.cfg.Location()))
}

func (s *Service) Eliminar(ctx context.Context, id string) error {
	if err := s.repo.Eliminar(ctx, id); err != nil {
		return err
	}
	log.WithField("asistencia_id", id).Info("Asistencia eliminada")
	return nil
}

// Estadisticas arma el tablero. La distribución horaria es de un solo
// día: el de fecha (YYYY-MM-DD), u hoy si viene vacía.
func (s *Service) Estadisticas(ctx context.Context, fecha string) (*Estadisticas, error) {
	ahora := time.Now().In(s.cfg.Location())
	dia := ahora
	if fecha != "" {
		var err error
		dia, err = common.ParseFecha(fecha, s.cfg.Location())
		if err != nil {
			return nil, err
		}
	}

	stats, err := s.repo.Estadisticas(ctx, ahora)
	if err != nil {
		return nil, err
	}
	stats.PorHora, err = s.repo.PorHora(ctx, dia)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// ContarHoy cuenta los ingresos del día en curso.
func (s *Service) ContarHoy(ctx context.Context) (int64, error) {
	return s.repo.ContarHoy(ctx, time.Now().In(s.cfg.Location()))
}
