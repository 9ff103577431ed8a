package service

import (
	"context"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
	"go.uber.org/zap"
)

// DisponibilidadService busca horarios abiertos para reprogramar. Lectura
// pura: no muta la agenda y una lista vacía es un resultado válido.
type DisponibilidadService struct {
	programaciones AlmacenProgramaciones
	logger         *zap.Logger
}

func NewDisponibilidadService(programaciones AlmacenProgramaciones, logger *zap.Logger) *DisponibilidadService {
	return &DisponibilidadService{
		programaciones: programaciones,
		logger:         logger,
	}
}

// BuscarHorarios devuelve un lote de horarios Disponibles que cumplen el
// filtro, junto con el total para seguir paginando.
func (s *DisponibilidadService) BuscarHorarios(ctx context.Context, f model.FiltroDisponibilidad, limit, offset int) ([]*model.Programacion, int, error) {
	horarios, total, err := s.programaciones.BuscarDisponibles(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	s.logger.Debug("Búsqueda de horarios",
		zap.Int("encontrados", len(horarios)),
		zap.Int("total", total),
	)

	return horarios, total, nil
}
