package repository

import (
	"context"
	"werise_backend/internal/model"
)

const WelcomeNotification = "Welcome to PO-Path! Start your assessment to get a personalized roadmap."

type NotificationRepository struct {
	notifications *collection[model.Notifications]
}

func NewNotificationRepository(store Store) *NotificationRepository {
	return &NotificationRepository{
		notifications: newCollection(store, KeyNotifications, func() model.Notifications {
			return model.Notifications{WelcomeNotification}
		}),
	}
}

func (r *NotificationRepository) List(ctx context.Context) (model.Notifications, error) {
	return r.notifications.load(ctx)
}

func (r *NotificationRepository) Push(ctx context.Context, msg string) error {
	_, err := r.notifications.update(ctx, func(n model.Notifications) (model.Notifications, error) {
		return n.Push(msg), nil
	})
	return err
}
