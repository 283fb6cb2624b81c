package planes

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"gymcontrol/internal/common"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Crear(ctx context.Context, req CrearRequest) (*Plan, error) {
	ahora := time.Now()
	p := &Plan{
		Nombre:       req.Nombre,
		DuracionDias: req.DuracionDias,
		Precio:       req.Precio,
		Descripcion:  req.Descripcion,
		Activo:       true,
		CreatedAt:    ahora,
		UpdatedAt:    ahora,
	}
	if err := s.repo.Crear(ctx, p); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"plan":          p.Nombre,
		"duracion_dias": p.DuracionDias,
		"precio":        p.Precio,
	}).Info("Plan creado")
	return p, nil
}

func (s *Service) PorID(ctx context.Context, id string) (*Plan, error) {
	return s.repo.PorID(ctx, id)
}

func (s *Service) Listar(ctx context.Context) ([]*Plan, error) {
	return s.repo.Activos(ctx)
}

func (s *Service) Actualizar(ctx context.Context, id string, req ActualizarRequest) (*Plan, error) {
	set := bson.M{}
	if req.Nombre != nil {
		set["nombre"] = *req.Nombre
	}
	if req.DuracionDias != nil {
		set["duracion_dias"] = *req.DuracionDias
	}
	if req.Precio != nil {
		set["precio"] = *req.Precio
	}
	if req.Descripcion != nil {
		set["descripcion"] = *req.Descripcion
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("el parche no contiene campos: %w", common.ErrValidacion)
	}

	if err := s.repo.Actualizar(ctx, id, set); err != nil {
		return nil, err
	}
	return s.repo.PorID(ctx, id)
}

func (s *Service) Eliminar(ctx context.Context, id string) error {
	if err := s.repo.Eliminar(ctx, id); err != nil {
		return err
	}
	log.WithField("plan_id", id).Info("Plan dado de baja")
	return nil
}
