package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SolicitudRepository struct {
	pool *pgxpool.Pool
}

func NewSolicitudRepository(pool *pgxpool.Pool) *SolicitudRepository {
	return &SolicitudRepository{pool: pool}
}

const solicitudColumnas = `
	s.id, s.codigo, s.reserva_id, s.tipo, s.motivo, s.estado,
	s.nueva_programacion_id, s.respuesta, s.created_at, s.resolved_at,
	r.id, r.paciente_id, r.servicio_id, r.programacion_id,
	r.estado, r.estado_cancelacion, r.num_reprogramaciones,
	r.created_at, r.updated_at,
	p.id, p.nombre, p.apellido, p.chat_id,
	sv.id, sv.nombre,
	pr.id, pr.empleado_id, pr.inicio, pr.fin, pr.estado,
	e.id, e.nombre, e.apellido, e.especialidad, e.chat_id`

const solicitudJoins = `
	FROM solicitudes s
	JOIN reservas r ON r.id = s.reserva_id
	JOIN pacientes p ON p.id = r.paciente_id
	JOIN servicios sv ON sv.id = r.servicio_id
	JOIN programaciones pr ON pr.id = r.programacion_id
	JOIN empleados e ON e.id = pr.empleado_id`

func scanSolicitud(row pgx.Row) (*model.Solicitud, error) {
	var (
		sol      model.Solicitud
		reserva  model.Reserva
		paciente model.Paciente
		servicio model.Servicio
		prog     model.Programacion
		empleado model.Empleado
	)

	err := row.Scan(
		&sol.ID,
		&sol.Codigo,
		&sol.ReservaID,
		&sol.Tipo,
		&sol.Motivo,
		&sol.Estado,
		&sol.NuevaProgramacionID,
		&sol.Respuesta,
		&sol.CreatedAt,
		&sol.ResolvedAt,
		&reserva.ID,
		&reserva.PacienteID,
		&reserva.ServicioID,
		&reserva.ProgramacionID,
		&reserva.Estado,
		&reserva.EstadoCancelacion,
		&reserva.NumReprogramaciones,
		&reserva.CreatedAt,
		&reserva.UpdatedAt,
		&paciente.ID,
		&paciente.Nombre,
		&paciente.Apellido,
		&paciente.ChatID,
		&servicio.ID,
		&servicio.Nombre,
		&prog.ID,
		&prog.EmpleadoID,
		&prog.Inicio,
		&prog.Fin,
		&prog.Estado,
		&empleado.ID,
		&empleado.Nombre,
		&empleado.Apellido,
		&empleado.Especialidad,
		&empleado.ChatID,
	)
	if err != nil {
		return nil, err
	}

	prog.Empleado = &empleado
	reserva.Paciente = &paciente
	reserva.Servicio = &servicio
	reserva.Programacion = &prog
	sol.Reserva = &reserva

	return &sol, nil
}

// Crear inserta la solicitud en estado Pendiente. Para cancelaciones marca
// además la reserva como Solicitada, en la misma transacción. El índice
// único parcial de solicitudes activas convierte un duplicado en conflicto.
func (r *SolicitudRepository) Crear(ctx context.Context, sol *model.Solicitud) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO solicitudes (codigo, reserva_id, tipo, motivo, estado)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err = tx.QueryRow(
		ctx, query,
		sol.Codigo,
		sol.ReservaID,
		sol.Tipo,
		sol.Motivo,
		sol.Estado,
	).Scan(&sol.ID, &sol.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.NuevoConflicto("la reserva %d ya tiene una solicitud activa", sol.ReservaID)
		}
		return fmt.Errorf("create solicitud: %w", err)
	}

	if sol.Tipo == model.TipoCancelacion {
		_, err = tx.Exec(ctx, `
			UPDATE reservas
			SET estado_cancelacion = 'Solicitada', updated_at = now()
			WHERE id = $1
		`, sol.ReservaID)
		if err != nil {
			return fmt.Errorf("marcar cancelacion solicitada: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID obtiene una solicitud con la reserva y sus relaciones cargadas.
func (r *SolicitudRepository) GetByID(ctx context.Context, id int64) (*model.Solicitud, error) {
	query := "SELECT " + solicitudColumnas + solicitudJoins + " WHERE s.id = $1"

	sol, err := scanSolicitud(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get solicitud by id: %w", err)
	}

	return sol, nil
}

// Listar devuelve solicitudes según el filtro, las más recientes primero.
func (r *SolicitudRepository) Listar(ctx context.Context, f model.FiltroSolicitudes) ([]*model.Solicitud, error) {
	query := "SELECT " + solicitudColumnas + solicitudJoins + " WHERE 1=1"
	args := []any{}

	if f.Tipo != "" {
		args = append(args, f.Tipo)
		query += fmt.Sprintf(" AND s.tipo = $%d", len(args))
	}
	if f.Estado != "" {
		args = append(args, f.Estado)
		query += fmt.Sprintf(" AND s.estado = $%d", len(args))
	}
	if f.Fecha != nil {
		args = append(args, *f.Fecha)
		query += fmt.Sprintf(" AND pr.inicio::date = $%d::date", len(args))
	}

	query += " ORDER BY s.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar solicitudes: %w", err)
	}
	defer rows.Close()

	var solicitudes []*model.Solicitud
	for rows.Next() {
		sol, err := scanSolicitud(rows)
		if err != nil {
			return nil, fmt.Errorf("scan solicitud: %w", err)
		}
		solicitudes = append(solicitudes, sol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate solicitudes: %w", err)
	}

	return solicitudes, nil
}

// TieneActiva verifica si la reserva tiene una solicitud Pendiente de
// cualquier tipo.
func (r *SolicitudRepository) TieneActiva(ctx context.Context, reservaID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM solicitudes
			WHERE reserva_id = $1 AND estado = 'Pendiente'
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, reservaID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check solicitud activa: %w", err)
	}

	return exists, nil
}

// AprobarCancelacion resuelve la solicitud y aplica sus efectos como una
// sola transacción: solicitud Aprobada, reserva Cancelada/Cancelada y el
// horario liberado. Si la solicitud ya no está Pendiente no cambia nada y
// devuelve conflicto.
func (r *SolicitudRepository) AprobarCancelacion(ctx context.Context, id int64, respuesta string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var reservaID int64
	err = tx.QueryRow(ctx, `
		UPDATE solicitudes
		SET estado = 'Aprobada', respuesta = $2, resolved_at = now()
		WHERE id = $1 AND estado = 'Pendiente'
		RETURNING reserva_id
	`, id, respuesta).Scan(&reservaID)

	if err != nil {
		if base.IsNotFound(err) {
			return model.NuevoConflicto("la solicitud %d ya fue resuelta", id)
		}
		return fmt.Errorf("aprobar solicitud: %w", err)
	}

	var programacionID int64
	err = tx.QueryRow(ctx, `
		UPDATE reservas
		SET estado = 'Cancelada', estado_cancelacion = 'Cancelada', updated_at = now()
		WHERE id = $1
		RETURNING programacion_id
	`, reservaID).Scan(&programacionID)
	if err != nil {
		return fmt.Errorf("cancelar reserva: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE programaciones SET estado = 'Disponible' WHERE id = $1
	`, programacionID)
	if err != nil {
		return fmt.Errorf("liberar horario: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// AprobarReprogramacion resuelve la solicitud y reencadena la reserva al
// nuevo horario como una sola transacción: ocupa el horario elegido, libera
// el anterior e incrementa num_reprogramaciones respetando el tope. Las
// guardas de cada UPDATE convierten cualquier carrera en conflicto sin
// efectos parciales.
func (r *SolicitudRepository) AprobarReprogramacion(ctx context.Context, id, programacionID int64, respuesta string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var reservaID int64
	err = tx.QueryRow(ctx, `
		UPDATE solicitudes
		SET estado = 'Aprobada', respuesta = $2, nueva_programacion_id = $3, resolved_at = now()
		WHERE id = $1 AND estado = 'Pendiente'
		RETURNING reserva_id
	`, id, respuesta, programacionID).Scan(&reservaID)

	if err != nil {
		if base.IsNotFound(err) {
			return model.NuevoConflicto("la solicitud %d ya fue resuelta", id)
		}
		return fmt.Errorf("aprobar solicitud: %w", err)
	}

	// Ocupar el horario elegido solo si sigue disponible
	tag, err := tx.Exec(ctx, `
		UPDATE programaciones SET estado = 'Ocupado'
		WHERE id = $1 AND estado = 'Disponible'
	`, programacionID)
	if err != nil {
		return fmt.Errorf("ocupar horario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NuevoConflicto("el horario %d ya no está disponible", programacionID)
	}

	var anteriorID int64
	err = tx.QueryRow(ctx, `
		SELECT programacion_id FROM reservas WHERE id = $1 FOR UPDATE
	`, reservaID).Scan(&anteriorID)
	if err != nil {
		return fmt.Errorf("get programacion anterior: %w", err)
	}

	tag, err = tx.Exec(ctx, `
		UPDATE reservas
		SET programacion_id = $2,
		    num_reprogramaciones = num_reprogramaciones + 1,
		    updated_at = now()
		WHERE id = $1 AND num_reprogramaciones < $3
	`, reservaID, programacionID, model.MaxReprogramaciones)
	if err != nil {
		return fmt.Errorf("reencadenar reserva: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NuevoConflicto("la reserva %d alcanzó el tope de reprogramaciones", reservaID)
	}

	_, err = tx.Exec(ctx, `
		UPDATE programaciones SET estado = 'Disponible' WHERE id = $1
	`, anteriorID)
	if err != nil {
		return fmt.Errorf("liberar horario anterior: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Rechazar resuelve la solicitud como Rechazada sin tocar la agenda. Para
// cancelaciones la marca derivada de la reserva vuelve a Ninguna, lo que
// habilita un nuevo envío.
func (r *SolicitudRepository) Rechazar(ctx context.Context, id int64, respuesta string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		reservaID int64
		tipo      model.TipoSolicitud
	)
	err = tx.QueryRow(ctx, `
		UPDATE solicitudes
		SET estado = 'Rechazada', respuesta = $2, resolved_at = now()
		WHERE id = $1 AND estado = 'Pendiente'
		RETURNING reserva_id, tipo
	`, id, respuesta).Scan(&reservaID, &tipo)

	if err != nil {
		if base.IsNotFound(err) {
			return model.NuevoConflicto("la solicitud %d ya fue resuelta", id)
		}
		return fmt.Errorf("rechazar solicitud: %w", err)
	}

	if tipo == model.TipoCancelacion {
		_, err = tx.Exec(ctx, `
			UPDATE reservas
			SET estado_cancelacion = 'Ninguna', updated_at = now()
			WHERE id = $1
		`, reservaID)
		if err != nil {
			return fmt.Errorf("revertir estado de cancelacion: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// CountPendientes cuenta las solicitudes Pendientes del tipo dado.
func (r *SolicitudRepository) CountPendientes(ctx context.Context, tipo model.TipoSolicitud) (int, error) {
	query := `
		SELECT COUNT(*) FROM solicitudes
		WHERE tipo = $1 AND estado = 'Pendiente'
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, tipo).Scan(&count); err != nil {
		return 0, fmt.Errorf("count solicitudes pendientes: %w", err)
	}

	return count, nil
}

// CountAprobadasHoy cuenta las solicitudes del tipo dado aprobadas hoy.
func (r *SolicitudRepository) CountAprobadasHoy(ctx context.Context, tipo model.TipoSolicitud) (int, error) {
	query := `
		SELECT COUNT(*) FROM solicitudes
		WHERE tipo = $1 AND estado = 'Aprobada' AND resolved_at::date = CURRENT_DATE
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, tipo).Scan(&count); err != nil {
		return 0, fmt.Errorf("count solicitudes aprobadas hoy: %w", err)
	}

	return count, nil
}

// ListarPendientesVencidas devuelve las solicitudes Pendientes cuya reserva
// ya pasó de fecha. Sin JOINs de presentación: las usa la tarea de fondo.
func (r *SolicitudRepository) ListarPendientesVencidas(ctx context.Context, ahora time.Time) ([]*model.Solicitud, error) {
	query := `
		SELECT s.id, s.codigo, s.reserva_id, s.tipo, s.motivo, s.estado,
		       s.nueva_programacion_id, s.respuesta, s.created_at, s.resolved_at
		FROM solicitudes s
		JOIN reservas r ON r.id = s.reserva_id
		JOIN programaciones pr ON pr.id = r.programacion_id
		WHERE s.estado = 'Pendiente' AND pr.inicio < date_trunc('day', $1::timestamptz)
		ORDER BY s.created_at
	`

	rows, err := r.pool.Query(ctx, query, ahora)
	if err != nil {
		return nil, fmt.Errorf("listar solicitudes vencidas: %w", err)
	}
	defer rows.Close()

	var solicitudes []*model.Solicitud
	for rows.Next() {
		var sol model.Solicitud
		err := rows.Scan(
			&sol.ID,
			&sol.Codigo,
			&sol.ReservaID,
			&sol.Tipo,
			&sol.Motivo,
			&sol.Estado,
			&sol.NuevaProgramacionID,
			&sol.Respuesta,
			&sol.CreatedAt,
			&sol.ResolvedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan solicitud: %w", err)
		}
		solicitudes = append(solicitudes, &sol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate solicitudes: %w", err)
	}

	return solicitudes, nil
}
