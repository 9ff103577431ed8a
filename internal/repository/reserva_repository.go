package repository

import (
	"context"
	"fmt"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservaRepository struct {
	pool *pgxpool.Pool
}

func NewReservaRepository(pool *pgxpool.Pool) *ReservaRepository {
	return &ReservaRepository{pool: pool}
}

// GetByID obtiene la reserva con paciente, servicio y programación cargados.
func (r *ReservaRepository) GetByID(ctx context.Context, id int64) (*model.Reserva, error) {
	query := `
		SELECT r.id, r.paciente_id, r.servicio_id, r.programacion_id,
		       r.estado, r.estado_cancelacion, r.num_reprogramaciones,
		       r.created_at, r.updated_at,
		       p.id, p.nombre, p.apellido, p.chat_id,
		       sv.id, sv.nombre,
		       pr.id, pr.empleado_id, pr.inicio, pr.fin, pr.estado,
		       e.id, e.nombre, e.apellido, e.especialidad, e.chat_id
		FROM reservas r
		JOIN pacientes p ON p.id = r.paciente_id
		JOIN servicios sv ON sv.id = r.servicio_id
		JOIN programaciones pr ON pr.id = r.programacion_id
		JOIN empleados e ON e.id = pr.empleado_id
		WHERE r.id = $1
	`

	var (
		reserva  model.Reserva
		paciente model.Paciente
		servicio model.Servicio
		prog     model.Programacion
		empleado model.Empleado
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
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
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reserva by id: %w", err)
	}

	prog.Empleado = &empleado
	reserva.Paciente = &paciente
	reserva.Servicio = &servicio
	reserva.Programacion = &prog

	return &reserva, nil
}
