package notifier

import (
	"context"
	"fmt"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// Telegram publica las novedades en el canal del personal y, si el paciente
// tiene chat vinculado, también se lo escribe directo.
type Telegram struct {
	bot         *bot.Bot
	staffChatID int64
	logger      *zap.Logger
}

func NewTelegram(token string, staffChatID int64, logger *zap.Logger) (*Telegram, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Telegram{
		bot:         b,
		staffChatID: staffChatID,
		logger:      logger,
	}, nil
}

func (t *Telegram) SolicitudCreada(ctx context.Context, sol *model.Solicitud) {
	texto := fmt.Sprintf("📥 Nueva %s\n%s\nMotivo: %s", descripcion(sol), detalleReserva(sol), sol.Motivo)
	t.enviar(ctx, t.staffChatID, texto)
}

func (t *Telegram) SolicitudResuelta(ctx context.Context, sol *model.Solicitud) {
	verbo := "rechazada"
	if sol.Estado == model.SolicitudAprobada {
		verbo = "aprobada"
	}

	texto := fmt.Sprintf("✅ %s %s\n%s", descripcion(sol), verbo, detalleReserva(sol))
	if sol.Respuesta != nil && *sol.Respuesta != "" {
		texto += "\nRespuesta: " + *sol.Respuesta
	}

	t.enviar(ctx, t.staffChatID, texto)

	if sol.Reserva != nil && sol.Reserva.Paciente != nil && sol.Reserva.Paciente.ChatID != nil {
		t.enviar(ctx, *sol.Reserva.Paciente.ChatID, texto)
	}
}

func (t *Telegram) enviar(ctx context.Context, chatID int64, texto string) {
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   texto,
	})
	if err != nil {
		t.logger.Warn("No se pudo enviar la notificación",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

func descripcion(sol *model.Solicitud) string {
	tipo := "solicitud de cancelación"
	if sol.EsReprogramacion() {
		tipo = "solicitud de reprogramación"
	}
	return fmt.Sprintf("%s #%d", tipo, sol.ID)
}

func detalleReserva(sol *model.Solicitud) string {
	r := sol.Reserva
	if r == nil {
		return fmt.Sprintf("Reserva #%d", sol.ReservaID)
	}

	detalle := fmt.Sprintf("Reserva #%d", r.ID)
	if r.Paciente != nil {
		detalle += " de " + r.Paciente.NombreCompleto()
	}
	if r.Servicio != nil {
		detalle += " (" + r.Servicio.Nombre + ")"
	}
	if r.Programacion != nil {
		detalle += " el " + r.Programacion.Inicio.Format("02/01/2006 15:04")
	}
	return detalle
}
