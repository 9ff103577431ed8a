package model

import (
	"errors"
	"fmt"
)

// ErrNoEncontrado indica que el registro solicitado no existe.
var ErrNoEncontrado = errors.New("registro no encontrado")

// ErrorValidacion es una violación de reglas de negocio detectada antes de
// tocar el almacenamiento (anticipación insuficiente, horario sin elegir,
// respuesta vacía, tope de reprogramaciones).
type ErrorValidacion struct {
	Motivo string
}

func (e *ErrorValidacion) Error() string {
	return e.Motivo
}

// NuevaValidacion construye un ErrorValidacion con formato.
func NuevaValidacion(format string, args ...any) error {
	return &ErrorValidacion{Motivo: fmt.Sprintf(format, args...)}
}

// ErrorConflicto indica que el estado actual del registro ya no admite la
// operación: resolver una solicitud ya resuelta, crear una segunda solicitud
// activa, ocupar un horario que dejó de estar disponible.
type ErrorConflicto struct {
	Motivo string
}

func (e *ErrorConflicto) Error() string {
	return e.Motivo
}

// NuevoConflicto construye un ErrorConflicto con formato.
func NuevoConflicto(format string, args ...any) error {
	return &ErrorConflicto{Motivo: fmt.Sprintf(format, args...)}
}

// EsValidacion reporta si err es un error de validación.
func EsValidacion(err error) bool {
	var ev *ErrorValidacion
	return errors.As(err, &ev)
}

// EsConflicto reporta si err es un error de conflicto.
func EsConflicto(err error) bool {
	var ec *ErrorConflicto
	return errors.As(err, &ec)
}
