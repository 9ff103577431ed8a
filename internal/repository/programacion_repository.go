package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProgramacionRepository struct {
	pool *pgxpool.Pool
}

func NewProgramacionRepository(pool *pgxpool.Pool) *ProgramacionRepository {
	return &ProgramacionRepository{pool: pool}
}

// GetByID obtiene un horario con su empleado cargado.
func (r *ProgramacionRepository) GetByID(ctx context.Context, id int64) (*model.Programacion, error) {
	query := `
		SELECT pr.id, pr.empleado_id, pr.inicio, pr.fin, pr.estado, pr.created_at,
		       e.id, e.nombre, e.apellido, e.especialidad, e.chat_id
		FROM programaciones pr
		JOIN empleados e ON e.id = pr.empleado_id
		WHERE pr.id = $1
	`

	var (
		prog     model.Programacion
		empleado model.Empleado
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&prog.ID,
		&prog.EmpleadoID,
		&prog.Inicio,
		&prog.Fin,
		&prog.Estado,
		&prog.CreatedAt,
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
		return nil, fmt.Errorf("get programacion by id: %w", err)
	}

	prog.Empleado = &empleado
	return &prog, nil
}

// BuscarDisponibles busca horarios Disponibles futuros según el filtro,
// por lotes de limit/offset. Devuelve también el total para la paginación.
// Un resultado vacío no es un error.
func (r *ProgramacionRepository) BuscarDisponibles(ctx context.Context, f model.FiltroDisponibilidad, limit, offset int) ([]*model.Programacion, int, error) {
	where := []string{"pr.estado = 'Disponible'", "pr.inicio > now()"}
	args := []any{}

	if f.EmpleadoID != nil {
		args = append(args, *f.EmpleadoID)
		where = append(where, fmt.Sprintf("pr.empleado_id = $%d", len(args)))
	}
	if f.Especialidad != "" {
		args = append(args, f.Especialidad)
		where = append(where, fmt.Sprintf("e.especialidad = $%d", len(args)))
	}
	if f.Fecha != nil {
		args = append(args, *f.Fecha)
		where = append(where, fmt.Sprintf("pr.inicio::date = $%d::date", len(args)))
	}
	if f.Desde != nil {
		args = append(args, *f.Desde)
		where = append(where, fmt.Sprintf("pr.inicio >= $%d", len(args)))
	}
	if f.Hasta != nil {
		args = append(args, *f.Hasta)
		where = append(where, fmt.Sprintf("pr.inicio < $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM programaciones pr
		JOIN empleados e ON e.id = pr.empleado_id
		WHERE ` + cond

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count horarios disponibles: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT pr.id, pr.empleado_id, pr.inicio, pr.fin, pr.estado, pr.created_at,
		       e.id, e.nombre, e.apellido, e.especialidad, e.chat_id
		FROM programaciones pr
		JOIN empleados e ON e.id = pr.empleado_id
		WHERE %s
		ORDER BY pr.inicio
		LIMIT $%d OFFSET $%d
	`, cond, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("buscar horarios disponibles: %w", err)
	}
	defer rows.Close()

	var horarios []*model.Programacion
	for rows.Next() {
		var (
			prog     model.Programacion
			empleado model.Empleado
		)
		err := rows.Scan(
			&prog.ID,
			&prog.EmpleadoID,
			&prog.Inicio,
			&prog.Fin,
			&prog.Estado,
			&prog.CreatedAt,
			&empleado.ID,
			&empleado.Nombre,
			&empleado.Apellido,
			&empleado.Especialidad,
			&empleado.ChatID,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan programacion: %w", err)
		}
		prog.Empleado = &empleado
		horarios = append(horarios, &prog)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate programaciones: %w", err)
	}

	return horarios, total, nil
}
