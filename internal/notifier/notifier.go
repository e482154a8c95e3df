package notifier

import (
	"context"

	"go.uber.org/zap"
)

// Message is a notification destined for the operations inbox.
type Message struct {
	From    string
	Subject string
	Body    string
}

// Notifier delivers messages to whoever watches the intake channel. A real
// deployment plugs in a mail relay; the default implementation records the
// message in the service log.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

type logNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Notify(_ context.Context, msg Message) error {
	n.log.Info("contact notification",
		zap.String("from", msg.From),
		zap.String("subject", msg.Subject),
	)
	return nil
}
