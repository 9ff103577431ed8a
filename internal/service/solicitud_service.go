package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/notifier"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SolicitudService implementa el flujo de modificación de reservas: el envío
// de solicitudes del paciente y la revisión (aprobar/rechazar) del personal.
// Las dos variantes comparten la máquina de estados
// Pendiente -> {Aprobada, Rechazada}; los efectos de la aprobación dependen
// del tipo.
type SolicitudService struct {
	reservas       AlmacenReservas
	solicitudes    AlmacenSolicitudes
	programaciones AlmacenProgramaciones
	notifier       notifier.Notifier
	logger         *zap.Logger
}

func NewSolicitudService(
	reservas AlmacenReservas,
	solicitudes AlmacenSolicitudes,
	programaciones AlmacenProgramaciones,
	notif notifier.Notifier,
	logger *zap.Logger,
) *SolicitudService {
	return &SolicitudService{
		reservas:       reservas,
		solicitudes:    solicitudes,
		programaciones: programaciones,
		notifier:       notif,
		logger:         logger,
	}
}

// SolicitarCancelacion crea una solicitud de cancelación Pendiente para la
// reserva, si las reglas de envío lo permiten.
func (s *SolicitudService) SolicitarCancelacion(ctx context.Context, reservaID int64, motivo string) (*model.Solicitud, error) {
	return s.solicitar(ctx, reservaID, motivo, model.TipoCancelacion)
}

// SolicitarReprogramacion crea una solicitud de reprogramación Pendiente
// para la reserva. El horario nuevo no se elige acá: lo fija el personal al
// aprobar.
func (s *SolicitudService) SolicitarReprogramacion(ctx context.Context, reservaID int64, motivo string) (*model.Solicitud, error) {
	return s.solicitar(ctx, reservaID, motivo, model.TipoReprogramacion)
}

func (s *SolicitudService) solicitar(ctx context.Context, reservaID int64, motivo string, tipo model.TipoSolicitud) (*model.Solicitud, error) {
	if strings.TrimSpace(motivo) == "" {
		return nil, model.NuevaValidacion("el motivo es obligatorio")
	}

	reserva, err := s.reservas.GetByID(ctx, reservaID)
	if err != nil {
		return nil, fmt.Errorf("get reserva: %w", err)
	}
	if reserva == nil {
		return nil, fmt.Errorf("reserva %d: %w", reservaID, model.ErrNoEncontrado)
	}

	if !reserva.AdmiteModificacion() {
		return nil, model.NuevaValidacion("una reserva en estado %s no admite solicitudes", reserva.Estado)
	}

	// A lo sumo una solicitud activa por reserva, de cualquier tipo
	if reserva.EstadoCancelacion != model.CancelacionNinguna {
		return nil, model.NuevoConflicto("la reserva %d ya tiene una cancelación %s", reservaID, strings.ToLower(string(reserva.EstadoCancelacion)))
	}
	activa, err := s.solicitudes.TieneActiva(ctx, reservaID)
	if err != nil {
		return nil, fmt.Errorf("check solicitud activa: %w", err)
	}
	if activa {
		return nil, model.NuevoConflicto("la reserva %d ya tiene una solicitud pendiente", reservaID)
	}

	// Ventana de anticipación: faltando menos de 2 días ya no se puede
	dias := reserva.DiasDeAnticipacion(time.Now())
	if dias < model.DiasMinimosAnticipacion {
		return nil, model.NuevaValidacion(
			"la solicitud debe enviarse con al menos %d días de anticipación (faltan %d)",
			model.DiasMinimosAnticipacion, dias,
		)
	}

	if tipo == model.TipoReprogramacion && !reserva.PuedeReprogramarse() {
		return nil, model.NuevaValidacion("la reserva %d ya alcanzó el tope de %d reprogramaciones", reservaID, model.MaxReprogramaciones)
	}

	sol := &model.Solicitud{
		Codigo:    uuid.New(),
		ReservaID: reservaID,
		Tipo:      tipo,
		Motivo:    motivo,
		Estado:    model.SolicitudPendiente,
	}

	if err := s.solicitudes.Crear(ctx, sol); err != nil {
		return nil, err
	}

	sol.Reserva = reserva

	s.logger.Info("Solicitud creada",
		zap.Int64("id_solicitud", sol.ID),
		zap.Int64("id_reserva", reservaID),
		zap.String("tipo", string(tipo)),
		zap.Int("dias_anticipacion", dias),
	)

	s.notifier.SolicitudCreada(ctx, sol)

	return sol, nil
}

// ListarSolicitudes devuelve las solicitudes según el filtro, las más
// recientes primero.
func (s *SolicitudService) ListarSolicitudes(ctx context.Context, f model.FiltroSolicitudes) ([]*model.Solicitud, error) {
	return s.solicitudes.Listar(ctx, f)
}

// AprobarCancelacion aprueba una solicitud de cancelación: la reserva queda
// Cancelada y su horario liberado.
func (s *SolicitudService) AprobarCancelacion(ctx context.Context, id int64, respuesta string) (*model.Solicitud, error) {
	sol, err := s.cargarPendiente(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sol.EsCancelacion() {
		return nil, model.NuevaValidacion("la solicitud %d no es de cancelación", id)
	}

	if err := s.solicitudes.AprobarCancelacion(ctx, id, respuesta); err != nil {
		return nil, err
	}

	s.logger.Info("Cancelación aprobada",
		zap.Int64("id_solicitud", id),
		zap.Int64("id_reserva", sol.ReservaID),
	)

	return s.resuelta(ctx, sol, model.SolicitudAprobada, respuesta), nil
}

// AprobarReprogramacion aprueba la solicitud reencadenando la reserva al
// horario elegido. Exige un horario elegido y Disponible; el tope de
// reprogramaciones se verifica de nuevo por las dudas, aunque la interfaz
// deshabilite la acción.
func (s *SolicitudService) AprobarReprogramacion(ctx context.Context, id, programacionID int64, respuesta string) (*model.Solicitud, error) {
	if programacionID == 0 {
		return nil, model.NuevaValidacion("debe elegir un horario para reprogramar")
	}

	sol, err := s.cargarPendiente(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sol.EsReprogramacion() {
		return nil, model.NuevaValidacion("la solicitud %d no es de reprogramación", id)
	}
	if sol.Reserva != nil && !sol.Reserva.PuedeReprogramarse() {
		return nil, model.NuevaValidacion("la reserva %d ya alcanzó el tope de %d reprogramaciones", sol.ReservaID, model.MaxReprogramaciones)
	}

	prog, err := s.programaciones.GetByID(ctx, programacionID)
	if err != nil {
		return nil, fmt.Errorf("get programacion: %w", err)
	}
	if prog == nil {
		return nil, model.NuevaValidacion("el horario %d no existe", programacionID)
	}
	if !prog.EstaDisponible() {
		return nil, model.NuevoConflicto("el horario %d ya no está disponible", programacionID)
	}

	if err := s.solicitudes.AprobarReprogramacion(ctx, id, programacionID, respuesta); err != nil {
		return nil, err
	}

	s.logger.Info("Reprogramación aprobada",
		zap.Int64("id_solicitud", id),
		zap.Int64("id_reserva", sol.ReservaID),
		zap.Int64("id_programacion", programacionID),
	)

	sol.NuevaProgramacionID = &programacionID
	if sol.Reserva != nil {
		sol.Reserva.ProgramacionID = programacionID
		sol.Reserva.NumReprogramaciones++
		sol.Reserva.Programacion = prog
	}

	return s.resuelta(ctx, sol, model.SolicitudAprobada, respuesta), nil
}

// RechazarSolicitud rechaza cualquier solicitud pendiente. El motivo del
// rechazo es obligatorio; la agenda no se toca y la reserva vuelve a admitir
// solicitudes nuevas.
func (s *SolicitudService) RechazarSolicitud(ctx context.Context, id int64, respuesta string) (*model.Solicitud, error) {
	if strings.TrimSpace(respuesta) == "" {
		return nil, model.NuevaValidacion("el motivo del rechazo es obligatorio")
	}

	sol, err := s.cargarPendiente(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.solicitudes.Rechazar(ctx, id, respuesta); err != nil {
		return nil, err
	}

	s.logger.Info("Solicitud rechazada",
		zap.Int64("id_solicitud", id),
		zap.Int64("id_reserva", sol.ReservaID),
		zap.String("tipo", string(sol.Tipo)),
	)

	if sol.EsCancelacion() && sol.Reserva != nil {
		sol.Reserva.EstadoCancelacion = model.CancelacionNinguna
	}

	return s.resuelta(ctx, sol, model.SolicitudRechazada, respuesta), nil
}

// Estadisticas recalcula los contadores del tablero a partir del listado;
// no guarda estado propio.
func (s *SolicitudService) Estadisticas(ctx context.Context) (*model.EstadisticasReprogramacion, error) {
	pendientes, err := s.solicitudes.CountPendientes(ctx, model.TipoReprogramacion)
	if err != nil {
		return nil, fmt.Errorf("count pendientes: %w", err)
	}

	hoy, err := s.solicitudes.CountAprobadasHoy(ctx, model.TipoReprogramacion)
	if err != nil {
		return nil, fmt.Errorf("count aprobadas hoy: %w", err)
	}

	return &model.EstadisticasReprogramacion{
		Pendientes:       pendientes,
		ReprogramadasHoy: hoy,
	}, nil
}

// ExpirarVencidas rechaza automáticamente las solicitudes pendientes cuya
// reserva ya pasó de fecha. Devuelve cuántas se resolvieron. Los conflictos
// por carrera con un revisor se ignoran.
func (s *SolicitudService) ExpirarVencidas(ctx context.Context) (int, error) {
	vencidas, err := s.solicitudes.ListarPendientesVencidas(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("listar vencidas: %w", err)
	}

	const respuesta = "Solicitud vencida: la fecha de la reserva ya pasó"

	resueltas := 0
	for _, sol := range vencidas {
		if err := s.solicitudes.Rechazar(ctx, sol.ID, respuesta); err != nil {
			if model.EsConflicto(err) {
				continue
			}
			s.logger.Warn("No se pudo expirar la solicitud",
				zap.Int64("id_solicitud", sol.ID),
				zap.Error(err),
			)
			continue
		}
		resueltas++
	}

	if resueltas > 0 {
		s.logger.Info("Solicitudes vencidas expiradas", zap.Int("cantidad", resueltas))
	}

	return resueltas, nil
}

// cargarPendiente obtiene la solicitud y valida la transición compartida:
// solo una solicitud Pendiente puede resolverse.
func (s *SolicitudService) cargarPendiente(ctx context.Context, id int64) (*model.Solicitud, error) {
	sol, err := s.solicitudes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get solicitud: %w", err)
	}
	if sol == nil {
		return nil, fmt.Errorf("solicitud %d: %w", id, model.ErrNoEncontrado)
	}
	if !sol.EsPendiente() {
		return nil, model.NuevoConflicto("la solicitud %d ya fue resuelta (%s)", id, sol.Estado)
	}
	return sol, nil
}

// resuelta refleja la resolución en la copia local y dispara la
// notificación. El almacenamiento ya quedó consistente.
func (s *SolicitudService) resuelta(ctx context.Context, sol *model.Solicitud, estado model.EstadoSolicitud, respuesta string) *model.Solicitud {
	ahora := time.Now()
	sol.Estado = estado
	sol.Respuesta = &respuesta
	sol.ResolvedAt = &ahora

	if sol.EsCancelacion() && estado == model.SolicitudAprobada && sol.Reserva != nil {
		sol.Reserva.Estado = model.ReservaCancelada
		sol.Reserva.EstadoCancelacion = model.CancelacionCancelada
	}

	s.notifier.SolicitudResuelta(ctx, sol)
	return sol
}
