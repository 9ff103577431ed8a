package model

import (
	"time"

	"github.com/google/uuid"
)

// TipoSolicitud distingue las dos variantes de solicitud de modificación.
// Comparten la misma máquina de estados; difieren en los efectos de la
// aprobación.
type TipoSolicitud string

const (
	TipoCancelacion    TipoSolicitud = "Cancelacion"
	TipoReprogramacion TipoSolicitud = "Reprogramacion"
)

type EstadoSolicitud string

const (
	SolicitudPendiente EstadoSolicitud = "Pendiente"
	SolicitudAprobada  EstadoSolicitud = "Aprobada"
	SolicitudRechazada EstadoSolicitud = "Rechazada"
)

// Solicitud es una petición del paciente para cancelar o reprogramar una
// reserva. Pendiente -> {Aprobada, Rechazada}; los estados resueltos son
// terminales. A lo sumo una solicitud Pendiente por reserva.
type Solicitud struct {
	ID        int64           `json:"id"`
	Codigo    uuid.UUID       `json:"codigo"`
	ReservaID int64           `json:"reserva_id"`
	Tipo      TipoSolicitud   `json:"tipo"`
	Motivo    string          `json:"motivo"`
	Estado    EstadoSolicitud `json:"estado"`

	// NuevaProgramacionID se fija recién al aprobar una reprogramación,
	// nunca al enviarla. Siempre nil para cancelaciones.
	NuevaProgramacionID *int64 `json:"nueva_programacion_id"`

	Respuesta  *string    `json:"respuesta"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at"`

	// Rellenado por JOIN
	Reserva *Reserva `json:"reserva,omitempty"`
}

// EsPendiente reporta si la solicitud sigue sin resolver.
func (s *Solicitud) EsPendiente() bool {
	return s.Estado == SolicitudPendiente
}

// EsCancelacion reporta si la solicitud es de cancelación.
func (s *Solicitud) EsCancelacion() bool {
	return s.Tipo == TipoCancelacion
}

// EsReprogramacion reporta si la solicitud es de reprogramación.
func (s *Solicitud) EsReprogramacion() bool {
	return s.Tipo == TipoReprogramacion
}

// FiltroSolicitudes restringe un listado de solicitudes.
type FiltroSolicitudes struct {
	Tipo   TipoSolicitud
	Estado EstadoSolicitud
	Fecha  *time.Time // fecha de la reserva programada
}

// EstadisticasReprogramacion son los contadores del tablero del trabajador.
type EstadisticasReprogramacion struct {
	Pendientes       int `json:"pendientes"`
	ReprogramadasHoy int `json:"reprogramadas_hoy"`
}
