// Package jobs corre las tareas programadas del sistema. Por ahora hay
// una sola: el refresco nocturno de vigencias, que apaga las membresías
// cuya fecha fin ya pasó.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"gymcontrol/internal/features/membresias"
)

// timeoutJob acota cada corrida contra la base.
const timeoutJob = 2 * time.Minute

type Scheduler struct {
	cron       *cron.Cron
	membresias *membresias.Service
}

func NewScheduler(loc *time.Location, membresiasService *membresias.Service) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		membresias: membresiasService,
	}

	// Medianoche local: justo cuando cambia el día calendario del que
	// depende la vigencia.
	if _, err := s.cron.AddFunc("0 0 * * *", s.refrescarVigencias); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("Scheduler iniciado")
}

// Stop detiene el cron y espera a que termine la corrida en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Scheduler detenido")
}

func (s *Scheduler) refrescarVigencias() {
	ctx, cancel := context.WithTimeout(context.Background(), timeoutJob)
	defer cancel()

	n, err := s.membresias.RefrescarVigencia(ctx)
	if err != nil {
		log.WithError(err).Error("Fallo el refresco nocturno de vigencias")
		return
	}
	log.WithField("apagadas", n).Info("Vigencias refrescadas")
}
