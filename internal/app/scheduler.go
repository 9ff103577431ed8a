package app

import (
	"context"
	"time"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/service"
	"go.uber.org/zap"
)

// Scheduler maneja las tareas de fondo.
type Scheduler struct {
	solicitudes *service.SolicitudService
	logger      *zap.Logger
	stopChan    chan struct{}
}

func NewScheduler(solicitudes *service.SolicitudService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		solicitudes: solicitudes,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

// Start lanza las tareas de fondo.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runExpiracionTask(ctx)
}

// Stop detiene las tareas de fondo.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runExpiracionTask expira periódicamente las solicitudes pendientes cuya
// reserva ya pasó de fecha, para que la cola de revisión no acumule
// solicitudes muertas.
func (s *Scheduler) runExpiracionTask(ctx context.Context) {
	// Primera corrida al arrancar
	s.expirar(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expirar(ctx)
		case <-s.stopChan:
			s.logger.Info("Expiración de solicitudes detenida")
			return
		case <-ctx.Done():
			s.logger.Info("Expiración de solicitudes cancelada")
			return
		}
	}
}

func (s *Scheduler) expirar(ctx context.Context) {
	resueltas, err := s.solicitudes.ExpirarVencidas(ctx)
	if err != nil {
		s.logger.Error("Failed to expire solicitudes", zap.Error(err))
		return
	}

	if resueltas > 0 {
		s.logger.Info("Expiración completada", zap.Int("resueltas", resueltas))
	}
}
