package services

import (
	"context"

	"github.com/dmitrijs2005/adconnect/internal/client/models"
	"github.com/dmitrijs2005/adconnect/internal/logging"
)

// Notifier delivers password reset messages. Real delivery (email, SMS)
// lives outside the client.
type Notifier interface {
	SendPasswordReset(ctx context.Context, acc *models.Account) error
}

// LogNotifier only records that a reset was requested.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("module", "notifier")}
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, acc *models.Account) error {
	n.log.Info(ctx, "password reset link requested", "user_id", acc.ID)
	return nil
}
