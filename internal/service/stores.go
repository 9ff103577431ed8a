package service

import (
	"context"
	"time"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
)

// Interfaces de almacenamiento que consumen los servicios. Las implementan
// los repositorios de pgx; los tests las cubren con fakes en memoria.

type AlmacenReservas interface {
	GetByID(ctx context.Context, id int64) (*model.Reserva, error)
}

// AlmacenSolicitudes expone, además de las lecturas, los efectos de
// resolución como operaciones atómicas: cada aprobación o rechazo es una
// sola transición en el almacenamiento, nunca una secuencia de mutaciones
// sueltas.
type AlmacenSolicitudes interface {
	Crear(ctx context.Context, sol *model.Solicitud) error
	GetByID(ctx context.Context, id int64) (*model.Solicitud, error)
	Listar(ctx context.Context, f model.FiltroSolicitudes) ([]*model.Solicitud, error)
	TieneActiva(ctx context.Context, reservaID int64) (bool, error)
	AprobarCancelacion(ctx context.Context, id int64, respuesta string) error
	AprobarReprogramacion(ctx context.Context, id, programacionID int64, respuesta string) error
	Rechazar(ctx context.Context, id int64, respuesta string) error
	CountPendientes(ctx context.Context, tipo model.TipoSolicitud) (int, error)
	CountAprobadasHoy(ctx context.Context, tipo model.TipoSolicitud) (int, error)
	ListarPendientesVencidas(ctx context.Context, ahora time.Time) ([]*model.Solicitud, error)
}

type AlmacenProgramaciones interface {
	GetByID(ctx context.Context, id int64) (*model.Programacion, error)
	BuscarDisponibles(ctx context.Context, f model.FiltroDisponibilidad, limit, offset int) ([]*model.Programacion, int, error)
}
