package controller

import (
	"time"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
)

// Formatos de fecha y hora del contrato JSON.
const (
	formatoFecha = "2006-01-02"
	formatoHora  = "15:04"
)

type solicitarRequest struct {
	IDReserva int64  `json:"id_reserva"`
	Motivo    string `json:"motivo"`
}

type procesarCancelacionRequest struct {
	IDSolicitud int64  `json:"id_solicitud"`
	Accion      string `json:"accion"`
	Respuesta   string `json:"respuesta"`
}

type aprobarReprogramacionRequest struct {
	IDSolicitud    int64  `json:"id_solicitud"`
	IDProgramacion int64  `json:"id_programacion"`
	Respuesta      string `json:"respuesta"`
}

type rechazarReprogramacionRequest struct {
	IDSolicitud int64  `json:"id_solicitud"`
	Respuesta   string `json:"respuesta"`
}

type solicitudCancelacionDTO struct {
	IDSolicitud         int64   `json:"id_solicitud"`
	Codigo              string  `json:"codigo"`
	IDReserva           int64   `json:"id_reserva"`
	Paciente            string  `json:"paciente"`
	Servicio            string  `json:"servicio"`
	Profesional         string  `json:"profesional"`
	Especialidad        string  `json:"especialidad"`
	Fecha               string  `json:"fecha"`
	HoraInicio          string  `json:"hora_inicio"`
	HoraFin             string  `json:"hora_fin"`
	Motivo              string  `json:"motivo"`
	Estado              string  `json:"estado"`
	Respuesta           *string `json:"respuesta"`
	FechaSolicitud      string  `json:"fecha_solicitud"`
	NuevaProgramacionID *int64  `json:"nueva_programacion_id"`
}

type solicitudReprogramacionDTO struct {
	IDSolicitud         int64   `json:"id_solicitud"`
	Codigo              string  `json:"codigo"`
	IDReserva           int64   `json:"id_reserva"`
	Paciente            string  `json:"paciente"`
	Servicio            string  `json:"servicio"`
	Profesional         string  `json:"profesional"`
	Especialidad        string  `json:"especialidad"`
	FechaActual         string  `json:"fecha_actual"`
	HoraInicioActual    string  `json:"hora_inicio_actual"`
	HoraFinActual       string  `json:"hora_fin_actual"`
	NumReprogramaciones int     `json:"num_reprogramaciones"`
	Motivo              string  `json:"motivo"`
	Estado              string  `json:"estado"`
	Respuesta           *string `json:"respuesta"`
	FechaSolicitud      string  `json:"fecha_solicitud"`
	NuevaProgramacionID *int64  `json:"nueva_programacion_id"`
}

type horarioDTO struct {
	IDProgramacion     int64  `json:"id_programacion"`
	Fecha              string `json:"fecha"`
	HoraInicio         string `json:"hora_inicio"`
	HoraFin            string `json:"hora_fin"`
	Profesional        string `json:"profesional"`
	Especialidad       string `json:"especialidad"`
	EstadoProgramacion string `json:"estado_programacion"`
}

func aCancelacionDTO(sol *model.Solicitud) solicitudCancelacionDTO {
	dto := solicitudCancelacionDTO{
		IDSolicitud:         sol.ID,
		Codigo:              sol.Codigo.String(),
		IDReserva:           sol.ReservaID,
		Motivo:              sol.Motivo,
		Estado:              string(sol.Estado),
		Respuesta:           sol.Respuesta,
		FechaSolicitud:      sol.CreatedAt.Format(time.RFC3339),
		NuevaProgramacionID: sol.NuevaProgramacionID,
	}

	if r := sol.Reserva; r != nil {
		if r.Paciente != nil {
			dto.Paciente = r.Paciente.NombreCompleto()
		}
		if r.Servicio != nil {
			dto.Servicio = r.Servicio.Nombre
		}
		if p := r.Programacion; p != nil {
			dto.Fecha = p.Inicio.Format(formatoFecha)
			dto.HoraInicio = p.Inicio.Format(formatoHora)
			dto.HoraFin = p.Fin.Format(formatoHora)
			if p.Empleado != nil {
				dto.Profesional = p.Empleado.NombreCompleto()
				dto.Especialidad = p.Empleado.Especialidad
			}
		}
	}

	return dto
}

func aReprogramacionDTO(sol *model.Solicitud) solicitudReprogramacionDTO {
	dto := solicitudReprogramacionDTO{
		IDSolicitud:         sol.ID,
		Codigo:              sol.Codigo.String(),
		IDReserva:           sol.ReservaID,
		Motivo:              sol.Motivo,
		Estado:              string(sol.Estado),
		Respuesta:           sol.Respuesta,
		FechaSolicitud:      sol.CreatedAt.Format(time.RFC3339),
		NuevaProgramacionID: sol.NuevaProgramacionID,
	}

	if r := sol.Reserva; r != nil {
		dto.NumReprogramaciones = r.NumReprogramaciones
		if r.Paciente != nil {
			dto.Paciente = r.Paciente.NombreCompleto()
		}
		if r.Servicio != nil {
			dto.Servicio = r.Servicio.Nombre
		}
		if p := r.Programacion; p != nil {
			dto.FechaActual = p.Inicio.Format(formatoFecha)
			dto.HoraInicioActual = p.Inicio.Format(formatoHora)
			dto.HoraFinActual = p.Fin.Format(formatoHora)
			if p.Empleado != nil {
				dto.Profesional = p.Empleado.NombreCompleto()
				dto.Especialidad = p.Empleado.Especialidad
			}
		}
	}

	return dto
}

func aHorarioDTO(prog *model.Programacion) horarioDTO {
	dto := horarioDTO{
		IDProgramacion:     prog.ID,
		Fecha:              prog.Inicio.Format(formatoFecha),
		HoraInicio:         prog.Inicio.Format(formatoHora),
		HoraFin:            prog.Fin.Format(formatoHora),
		EstadoProgramacion: string(prog.Estado),
	}

	if prog.Empleado != nil {
		dto.Profesional = prog.Empleado.NombreCompleto()
		dto.Especialidad = prog.Empleado.Especialidad
	}

	return dto
}
