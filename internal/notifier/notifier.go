package notifier

import (
	"context"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
)

// Notifier avisa al personal y al paciente sobre el ciclo de vida de una
// solicitud. Es un colaborador delegado: sus fallas se registran y nunca
// interrumpen el flujo de revisión.
type Notifier interface {
	SolicitudCreada(ctx context.Context, sol *model.Solicitud)
	SolicitudResuelta(ctx context.Context, sol *model.Solicitud)
}

// NoOp descarta todas las notificaciones. Se usa cuando no hay token de
// Telegram configurado y en los tests.
type NoOp struct{}

func (NoOp) SolicitudCreada(context.Context, *model.Solicitud)   {}
func (NoOp) SolicitudResuelta(context.Context, *model.Solicitud) {}
