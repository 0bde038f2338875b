package notify

import (
	"context"
	"log/slog"

	"github.com/madanco/crewdeck/pkg/models"
)

// LogSink writes deliveries to the structured log. The office currently reads
// notifications off the server log; an email or SMS sink would implement the
// same Handler signature.
func LogSink(logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, n *models.Notification) error {
		logger.Info("notification delivered",
			slog.String("type", n.Type),
			slog.String("recipient", n.RecipientID),
			slog.String("payload", n.Payload),
		)
		return nil
	}
}

// DefaultHandlers wires every notification type to the sink.
func DefaultHandlers(sink Handler) map[string]Handler {
	return map[string]Handler{
		TypeCommunicationCreated:  sink,
		TypeCommunicationResolved: sink,
		TypeReminderDue:           sink,
	}
}
