package model

import "time"

type EstadoProgramacion string

const (
	ProgramacionDisponible EstadoProgramacion = "Disponible"
	ProgramacionOcupado    EstadoProgramacion = "Ocupado"
)

// Programacion es un horario agendable: un bloque (fecha, hora inicio, hora
// fin) de un empleado. Solo los horarios Disponibles pueden elegirse al
// reprogramar.
type Programacion struct {
	ID         int64              `json:"id"`
	EmpleadoID int64              `json:"empleado_id"`
	Inicio     time.Time          `json:"inicio"`
	Fin        time.Time          `json:"fin"`
	Estado     EstadoProgramacion `json:"estado"`
	CreatedAt  time.Time          `json:"created_at"`

	// Rellenado por JOIN
	Empleado *Empleado `json:"empleado,omitempty"`
}

// EstaDisponible reporta si el horario puede ocuparse.
func (p *Programacion) EstaDisponible() bool {
	return p.Estado == ProgramacionDisponible
}

// FiltroDisponibilidad restringe la búsqueda de horarios abiertos.
// Todos los campos son opcionales.
type FiltroDisponibilidad struct {
	EmpleadoID   *int64
	Especialidad string
	Fecha        *time.Time
	Desde        *time.Time
	Hasta        *time.Time
}
