package model

import "time"

type EstadoReserva string

const (
	ReservaPendiente  EstadoReserva = "Pendiente"
	ReservaConfirmada EstadoReserva = "Confirmada"
	ReservaCompletada EstadoReserva = "Completada"
	ReservaInasistida EstadoReserva = "Inasistida"
	ReservaCancelada  EstadoReserva = "Cancelada"
)

// EstadoCancelacion es una marca independiente del estado de la reserva:
// registra si existe o se aprobó una solicitud de cancelación.
type EstadoCancelacion string

const (
	CancelacionNinguna    EstadoCancelacion = "Ninguna"
	CancelacionSolicitada EstadoCancelacion = "Solicitada"
	CancelacionCancelada  EstadoCancelacion = "Cancelada"
)

// Reglas de negocio fijas del flujo de modificación.
const (
	// DiasMinimosAnticipacion es la ventana mínima (en días calendario)
	// entre hoy y la fecha de la reserva para admitir una solicitud.
	DiasMinimosAnticipacion = 2

	// MaxReprogramaciones es el tope de reprogramaciones aprobadas por reserva.
	MaxReprogramaciones = 2
)

type Reserva struct {
	ID                  int64             `json:"id"`
	PacienteID          int64             `json:"paciente_id"`
	ServicioID          int64             `json:"servicio_id"`
	ProgramacionID      int64             `json:"programacion_id"`
	Estado              EstadoReserva     `json:"estado"`
	EstadoCancelacion   EstadoCancelacion `json:"estado_cancelacion"`
	NumReprogramaciones int               `json:"num_reprogramaciones"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`

	// Campos adicionales rellenados por JOIN (no siempre presentes)
	Paciente     *Paciente     `json:"paciente,omitempty"`
	Servicio     *Servicio     `json:"servicio,omitempty"`
	Programacion *Programacion `json:"programacion,omitempty"`
}

// AdmiteModificacion reporta si el estado de la reserva permite solicitar
// una cancelación o reprogramación. Las reservas completadas, inasistidas o
// canceladas son terminales.
func (r *Reserva) AdmiteModificacion() bool {
	switch r.Estado {
	case ReservaCompletada, ReservaInasistida, ReservaCancelada:
		return false
	}
	return true
}

// DiasDeAnticipacion calcula dias_diferencia: días calendario entre la fecha
// de ahora y la fecha programada de la reserva. Requiere la programación
// cargada por JOIN.
func (r *Reserva) DiasDeAnticipacion(ahora time.Time) int {
	if r.Programacion == nil {
		return 0
	}
	inicio := r.Programacion.Inicio.In(ahora.Location())
	hoy := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 0, 0, 0, 0, ahora.Location())
	fecha := time.Date(inicio.Year(), inicio.Month(), inicio.Day(), 0, 0, 0, 0, ahora.Location())
	return int(fecha.Sub(hoy).Hours() / 24)
}

// PuedeReprogramarse reporta si la reserva aún no alcanzó el tope de
// reprogramaciones aprobadas.
func (r *Reserva) PuedeReprogramarse() bool {
	return r.NumReprogramaciones < MaxReprogramaciones
}
