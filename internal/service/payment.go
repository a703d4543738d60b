package service

import (
	"context"
	"errors"
	"time"

	"parcel/internal/domain"
	"parcel/internal/metrics"
	"parcel/internal/repository"
)

// PaymentGateway is the interface for the external card processor.
type PaymentGateway interface {
	// CreatePaymentIntent authorizes amount (in cents, USD) and returns the
	// client secret the payment UI uses to complete the charge.
	CreatePaymentIntent(ctx context.Context, amount int64) (string, error)
}

// PaymentService handles payment operations.
type PaymentService struct {
	paymentRepo         repository.PaymentRepository
	txRunner            repository.TxRunner
	gateway             PaymentGateway
	notificationService *NotificationService
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	txRunner repository.TxRunner,
	gateway PaymentGateway,
	notificationService *NotificationService,
) *PaymentService {
	return &PaymentService{
		paymentRepo:         paymentRepo,
		txRunner:            txRunner,
		gateway:             gateway,
		notificationService: notificationService,
	}
}

// CreatePaymentIntent asks the gateway to authorize amount cents. Nothing is stored.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidPaymentAmount
	}

	secret, err := s.gateway.CreatePaymentIntent(ctx, amount)
	metrics.PaymentIntents.WithLabelValues(metrics.Result(err)).Inc()
	return secret, err
}

// RecordPaymentResult holds the outcome of both steps of RecordPayment.
type RecordPaymentResult struct {
	ParcelUpdate  repository.UpdateResult
	PaymentInsert repository.InsertResult
	Payment       *domain.Payment
}

// RecordPayment marks the parcel paid and appends a ledger entry stamped with
// the server time. Both steps run through the TxRunner: on stores with
// transactions a failed insert also undoes the parcel update.
func (s *PaymentService) RecordPayment(ctx context.Context, payment *domain.Payment) (*RecordPaymentResult, error) {
	if payment.ParcelID == "" {
		return nil, ErrInvalidParcelID
	}
	if payment.TransactionID == "" {
		return nil, ErrMissingTransactionID
	}

	var result RecordPaymentResult
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, stores repository.Stores) error {
		update, err := stores.Parcels.MarkPaid(ctx, payment.ParcelID, payment.TransactionID)
		if err != nil {
			return err
		}

		if update.MatchedCount == 0 {
			// Nothing matched: the parcel is either missing or already paid.
			if _, err := stores.Parcels.GetByID(ctx, payment.ParcelID); err != nil {
				return err
			}
			return ErrParcelAlreadyPaid
		}

		payment.CreatedAt = time.Now().UTC()
		insert, err := stores.Payments.Create(ctx, payment)
		if err != nil {
			return err
		}

		result = RecordPaymentResult{
			ParcelUpdate:  update,
			PaymentInsert: insert,
			Payment:       payment,
		}
		return nil
	})

	if !errors.Is(err, ErrParcelAlreadyPaid) && !errors.Is(err, repository.ErrNotFound) {
		metrics.PaymentsRecorded.WithLabelValues(metrics.Result(err)).Inc()
	}
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyPaymentRecorded(ctx, payment)
	}
	return &result, nil
}

// ListPayments returns payments newest first, optionally only those for email.
func (s *PaymentService) ListPayments(ctx context.Context, email string) ([]*domain.Payment, error) {
	return s.paymentRepo.List(ctx, email)
}
