package model

import "time"

// Paciente es el titular de una reserva. ChatID enlaza opcionalmente su chat
// de Telegram para notificaciones.
type Paciente struct {
	ID        int64     `json:"id"`
	Nombre    string    `json:"nombre"`
	Apellido  string    `json:"apellido"`
	ChatID    *int64    `json:"chat_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NombreCompleto devuelve "Nombre Apellido".
func (p *Paciente) NombreCompleto() string {
	if p.Apellido == "" {
		return p.Nombre
	}
	return p.Nombre + " " + p.Apellido
}

// Empleado es el profesional asignado a una programación.
type Empleado struct {
	ID           int64     `json:"id"`
	Nombre       string    `json:"nombre"`
	Apellido     string    `json:"apellido"`
	Especialidad string    `json:"especialidad"`
	ChatID       *int64    `json:"chat_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NombreCompleto devuelve "Nombre Apellido".
func (e *Empleado) NombreCompleto() string {
	if e.Apellido == "" {
		return e.Nombre
	}
	return e.Nombre + " " + e.Apellido
}

// Servicio es la prestación reservada (consulta, operación, examen).
type Servicio struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}
