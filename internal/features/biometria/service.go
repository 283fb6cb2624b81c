package biometria

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"gymcontrol/internal/common"
	"gymcontrol/internal/config"
	"gymcontrol/internal/features/usuarios"
)

// confianzaVerificacion es la confianza que se reporta al lector cuando
// el socio tiene plantillas del tipo pedido. El emparejamiento 1:1 corre
// en el dispositivo; del lado del servidor solo se confirma el enrolado.
const confianzaVerificacion = 0.95

type Service struct {
	repo     *Repository
	usuarios *usuarios.Repository
	cfg      *config.Config
}

func NewService(repo *Repository, usuariosRepo *usuarios.Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, usuarios: usuariosRepo, cfg: cfg}
}

// Registrar enrola una plantilla nueva. Un socio puede acumular varias
// plantillas del mismo tipo (distintos dedos, distintos lectores); las
// anteriores se conservan. Los flags derivados del socio se refrescan
// con el conteo resultante.
func (s *Service) Registrar(ctx context.Context, req RegistrarRequest) (*Plantilla, error) {
	u, err := s.usuarios.PorID(ctx, req.UsuarioID)
	if err != nil {
		return nil, err
	}
	if !u.Activo {
		return nil, fmt.Errorf("usuario activo %d: %w", req.UsuarioID, common.ErrNoEncontrado)
	}

	ahora := time.Now().In(s.cfg.Location())
	p := &Plantilla{
		UsuarioID:     req.UsuarioID,
		TipoPlantilla: req.TipoPlantilla,
		Template:      req.Template,
		Calidad:       req.Calidad,
		Dispositivo:   req.Dispositivo,
		FechaRegistro: ahora,
		Activo:        true,
		CreatedAt:     ahora,
	}
	if err := s.repo.Registrar(ctx, p); err != nil {
		return nil, err
	}

	total, err := s.repo.ContarPorUsuario(ctx, req.UsuarioID)
	if err != nil {
		return nil, err
	}
	if err := s.usuarios.ActualizarFlagsBiometria(ctx, req.UsuarioID, int(total)); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"usuario_id": req.UsuarioID,
		"tipo":       req.TipoPlantilla,
		"calidad":    req.Calidad,
	}).Info("Plantilla biométrica registrada")
	return p, nil
}

// Verificar responde a la verificación 1:1 del lector: el socio tiene
// que existir, estar activo y tener plantillas del tipo pedido.
func (s *Service) Verificar(ctx context.Context, req VerificarRequest) (*Verificacion, error) {
	u, err := s.usuarios.PorID(ctx, req.UsuarioID)
	if err != nil {
		return nil, err
	}
	if !u.Activo {
		return nil, fmt.Errorf("usuario activo %d: %w", req.UsuarioID, common.ErrNoEncontrado)
	}

	plantillas, err := s.repo.PorUsuarioYTipo(ctx, req.UsuarioID, req.TipoPlantilla)
	if err != nil {
		return nil, err
	}

	v := &Verificacion{UsuarioID: u.ID, Nombre: u.NombreCompleto()}
	if len(plantillas) > 0 {
		v.Verificado = true
		v.Confianza = confianzaVerificacion
	}

	log.WithFields(log.Fields{
		"usuario_id": u.ID,
		"tipo":       req.TipoPlantilla,
		"verificado": v.Verificado,
	}).Debug("Verificación biométrica")
	return v, nil
}

func (s *Service) PorUsuario(ctx context.Context, usuarioID int) ([]*Plantilla, error) {
	if _, err := s.usuarios.PorID(ctx, usuarioID); err != nil {
		return nil, err
	}
	return s.repo.PorUsuario(ctx, usuarioID)
}

// Listar filtra por tipo de plantilla; tipo vacío devuelve todas, un
// tipo desconocido es error de validación.
func (s *Service) Listar(ctx context.Context, tipo string) ([]*Plantilla, error) {
	switch tipo {
	case "", TipoHuella, TipoRostro:
	default:
		return nil, fmt.Errorf("%w: tipo de plantilla desconocido: %q", common.ErrValidacion, tipo)
	}
	return s.repo.Listar(ctx, tipo)
}

func (s *Service) Estadisticas(ctx context.Context) (*Estadisticas, error) {
	return s.repo.Estadisticas(ctx)
}
