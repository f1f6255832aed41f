package service

import (
	"context"
	"errors"

	"github.com/skillery/backend/internal/apperr"
	"github.com/skillery/backend/internal/models"
	"github.com/skillery/backend/internal/storage"
)

// NotificationService exposes the per-user notification feed.
type NotificationService struct {
	store storage.Store
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(store storage.Store) *NotificationService {
	return &NotificationService{store: store}
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, callerID string) ([]*models.Notification, error) {
	out, err := s.store.ListNotifications(ctx, callerID)
	if err != nil {
		return nil, apperr.Dependency("failed to list notifications", err)
	}
	return out, nil
}

// MarkRead acknowledges one of the caller's notifications.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, callerID string) error {
	if err := s.store.MarkNotificationRead(ctx, notificationID, callerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("notification")
		}
		return apperr.Dependency("failed to mark notification read", err)
	}
	return nil
}
