// Package notify defines the notification port the services emit through.
//
// Emission is fire-and-forget: a sink failure is logged at the call site
// and never fails or rolls back the mutation that triggered it.
package notify

import (
	"context"
	"log/slog"

	"github.com/skillery/backend/internal/models"
	"github.com/skillery/backend/internal/storage"
)

// Sink receives activity notifications for a user.
type Sink interface {
	Emit(ctx context.Context, userID, notifType, message, refID string) error
}

// StoreSink persists notifications through the storage layer, making them
// available on the user's feed.
type StoreSink struct {
	store storage.Store
}

// NewStoreSink creates a store-backed notification sink.
func NewStoreSink(store storage.Store) *StoreSink {
	return &StoreSink{store: store}
}

// Emit writes one notification row.
func (s *StoreSink) Emit(ctx context.Context, userID, notifType, message, refID string) error {
	return s.store.CreateNotification(ctx, &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
		RefID:   refID,
	})
}

// Send emits through the sink and discards the error after logging it.
// Services call this helper so a broken sink can never fail a mutation.
func Send(ctx context.Context, sink Sink, userID, notifType, message, refID string) {
	if sink == nil || userID == "" {
		return
	}
	if err := sink.Emit(ctx, userID, notifType, message, refID); err != nil {
		slog.Warn("notification emit failed",
			"user_id", userID,
			"type", notifType,
			"error", err,
		)
	}
}
