package notification

import (
	"context"
	"fmt"

	"haulaway/models"
	"haulaway/utils"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService surfaces one-time order events to the device.
type NotificationService interface {
	SendStatusPush(ctx context.Context, token string, ord *models.Order, status models.OrderStatus) error
}

// DefaultNotificationService sends pushes through FCM.
type DefaultNotificationService struct{}

func NewDefaultNotificationService() *DefaultNotificationService {
	return &DefaultNotificationService{}
}

// SendStatusPush notifies the device that the order moved to a new status.
func (s *DefaultNotificationService) SendStatusPush(ctx context.Context, token string, ord *models.Order, status models.OrderStatus) error {
	if token == "" {
		return fmt.Errorf("SendStatusPush: no push token registered for order %s", ord.ID)
	}
	if utils.FCMClient == nil {
		return fmt.Errorf("SendStatusPush: push transport not configured")
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "Pickup update",
			Body:  statusBody(status),
		},
		Data: map[string]string{
			"orderId":       ord.ID,
			"referenceCode": ord.ReferenceCode,
			"status":        string(status),
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendStatusPush: failed to send FCM message: %w", err)
	}
	return nil
}

func statusBody(status models.OrderStatus) string {
	switch status {
	case models.StatusAccepted:
		return "A truck has been assigned to your pickup."
	case models.StatusInProgress:
		return "Your pickup is underway."
	case models.StatusCompleted:
		return "Your pickup is complete."
	case models.StatusCancelled:
		return "Your pickup was cancelled."
	default:
		return "Your pickup status changed."
	}
}
