package departamentos

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

func (s *Service) Crear(ctx context.Context, req CrearRequest) (*Departamento, error) {
	ahora := time.Now()
	d := &Departamento{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activo:      true,
		CreatedAt:   ahora,
		UpdatedAt:   ahora,
	}
	if err := s.repo.Crear(ctx, d); err != nil {
		return nil, err
	}

	log.WithField("departamento", d.Nombre).Info("Departamento creado")
	return d, nil
}

func (s *Service) PorID(ctx context.Context, id string) (*Departamento, error) {
	return s.repo.PorID(ctx, id)
}

func (s *Service) Listar(ctx context.Context) ([]*Departamento, error) {
	return s.repo.Activos(ctx)
}

func (s *Service) Actualizar(ctx context.Context, id string, req ActualizarRequest) (*Departamento, error) {
	set := bson.M{}
	if req.Nombre != nil {
		set["nombre"] = *req.Nombre
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
	log.WithField("departamento_id", id).Info("Departamento dado de baja")
	return nil
}
