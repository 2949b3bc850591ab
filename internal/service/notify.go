package service

import (
	"context"

	"comanda/internal/models"

	"github.com/sirupsen/logrus"
)

// emit hands the event to the notification sink. Best effort: failures are
// logged and the triggering operation proceeds unaffected.
func (s *Service) emit(ctx context.Context, ev models.NotificationEvent) {
	if s.notifier == nil {
		return
	}
	ev.At = s.now()
	if err := s.notifier.Notify(ctx, ev); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"kind":  ev.Kind,
			"order": ev.OrderNumber,
		}).Warn("notification publish failed")
	}
}
