package service

import (
	"context"
	"time"

	"parcel/internal/domain"
	"parcel/internal/repository"
)

// ParcelService handles parcel bookings.
type ParcelService struct {
	parcelRepo repository.ParcelRepository
}

// NewParcelService creates a new ParcelService.
func NewParcelService(parcelRepo repository.ParcelRepository) *ParcelService {
	return &ParcelService{parcelRepo: parcelRepo}
}

// ListParcels returns parcels newest first, optionally only those created by ownerEmail.
func (s *ParcelService) ListParcels(ctx context.Context, ownerEmail string) ([]*domain.Parcel, error) {
	return s.parcelRepo.List(ctx, ownerEmail)
}

// GetParcel retrieves a parcel by ID.
func (s *ParcelService) GetParcel(ctx context.Context, id string) (*domain.Parcel, error) {
	if id == "" {
		return nil, ErrInvalidParcelID
	}
	return s.parcelRepo.GetByID(ctx, id)
}

// CreateParcel books a new parcel. Bookings always start unpaid; createdAt is
// stamped only when the client did not send one.
func (s *ParcelService) CreateParcel(ctx context.Context, parcel *domain.Parcel) (repository.InsertResult, error) {
	if parcel.CreatedBy == "" {
		return repository.InsertResult{}, ErrMissingCreator
	}

	switch parcel.PaymentStatus {
	case "":
		parcel.PaymentStatus = domain.PaymentStatusUnpaid
	case domain.PaymentStatusUnpaid:
	default:
		return repository.InsertResult{}, ErrInvalidPaymentStatus
	}
	parcel.TransactionID = ""

	if parcel.CreatedAt.IsZero() {
		parcel.CreatedAt = time.Now().UTC()
	}

	return s.parcelRepo.Create(ctx, parcel)
}

// DeleteParcel removes a parcel. Deleting a missing parcel reports zero deletions.
func (s *ParcelService) DeleteParcel(ctx context.Context, id string) (repository.DeleteResult, error) {
	if id == "" {
		return repository.DeleteResult{}, ErrInvalidParcelID
	}
	return s.parcelRepo.Delete(ctx, id)
}
