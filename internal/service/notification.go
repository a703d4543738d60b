package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"parcel/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationPaymentRecorded    NotificationType = "PAYMENT_RECORDED"
	NotificationRiderStatusChanged NotificationType = "RIDER_STATUS_CHANGED"
)

// Notification represents a notification to be sent.
type Notification struct {
	CreatedAt time.Time
	Data      map[string]any
	Type      NotificationType
	Recipient string // user email
	Title     string
	Message   string
}

// NotificationService handles notification delivery. Notifications are
// currently only written to the log.
type NotificationService struct {
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(logger *zap.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

// NotifyPaymentRecorded tells the payer their parcel is paid.
func (s *NotificationService) NotifyPaymentRecorded(ctx context.Context, payment *domain.Payment) error {
	if payment.Email == "" {
		return nil
	}

	return s.send(ctx, Notification{
		Type:      NotificationPaymentRecorded,
		Recipient: payment.Email,
		Title:     "Payment Received",
		Message:   fmt.Sprintf("Payment of $%.2f for parcel %s was received", payment.Amount, payment.ParcelID),
		Data: map[string]any{
			"parcel_id":      payment.ParcelID,
			"transaction_id": payment.TransactionID,
			"amount":         payment.Amount,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRiderStatusChanged tells an applicant their rider status changed.
func (s *NotificationService) NotifyRiderStatusChanged(ctx context.Context, riderID, email string, status domain.RiderStatus) error {
	if email == "" {
		return nil
	}

	return s.send(ctx, Notification{
		Type:      NotificationRiderStatusChanged,
		Recipient: email,
		Title:     "Rider Application Update",
		Message:   fmt.Sprintf("Your rider status is now %s", status),
		Data: map[string]any{
			"rider_id": riderID,
			"status":   string(status),
		},
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(_ context.Context, notification Notification) error {
	s.logger.Info("notification",
		zap.String("type", string(notification.Type)),
		zap.String("recipient", notification.Recipient),
		zap.String("title", notification.Title),
		zap.String("message", notification.Message),
		zap.Any("data", notification.Data),
	)
	return nil
}
