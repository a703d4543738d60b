package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"parcel/internal/domain"
	"parcel/internal/metrics"
	"parcel/internal/redis"
	"parcel/internal/repository"
)

// RiderService handles rider applications and the approval workflow.
type RiderService struct {
	riderRepo           repository.RiderRepository
	txRunner            repository.TxRunner
	roleCache           redis.RoleCacheInterface
	notificationService *NotificationService
	logger              *zap.Logger
}

// NewRiderService creates a new RiderService. roleCache may be nil.
func NewRiderService(
	riderRepo repository.RiderRepository,
	txRunner repository.TxRunner,
	roleCache redis.RoleCacheInterface,
	notificationService *NotificationService,
	logger *zap.Logger,
) *RiderService {
	return &RiderService{
		riderRepo:           riderRepo,
		txRunner:            txRunner,
		roleCache:           roleCache,
		notificationService: notificationService,
		logger:              logger,
	}
}

// SubmitApplication stores a rider application. Status defaults to pending.
func (s *RiderService) SubmitApplication(ctx context.Context, rider *domain.Rider) (repository.InsertResult, error) {
	if rider.Email == "" {
		return repository.InsertResult{}, ErrMissingEmail
	}

	if rider.Status == "" {
		rider.Status = domain.RiderStatusPending
	}
	if !rider.Status.Valid() {
		return repository.InsertResult{}, ErrInvalidRiderStatus
	}

	if rider.CreatedAt.IsZero() {
		rider.CreatedAt = time.Now().UTC()
	}

	return s.riderRepo.Create(ctx, rider)
}

// ListRiders returns every rider application.
func (s *RiderService) ListRiders(ctx context.Context) ([]*domain.Rider, error) {
	return s.riderRepo.List(ctx, "")
}

// ListPendingRiders returns applications awaiting review.
func (s *RiderService) ListPendingRiders(ctx context.Context) ([]*domain.Rider, error) {
	return s.riderRepo.List(ctx, domain.RiderStatusPending)
}

// ListApprovedRiders returns approved riders.
func (s *RiderService) ListApprovedRiders(ctx context.Context) ([]*domain.Rider, error) {
	return s.riderRepo.List(ctx, domain.RiderStatusApproved)
}

// SetRiderStatusRequest contains the parameters for changing a rider's status.
type SetRiderStatusRequest struct {
	RiderID string
	Status  domain.RiderStatus
	// Email selects the user whose role changes. When empty the rider's own
	// email is used.
	Email string
}

// RiderStatusResult holds the outcome of both steps of a status change.
type RiderStatusResult struct {
	RiderUpdate repository.UpdateResult
	UserUpdate  repository.UpdateResult
	UserEmail   string
}

// SetRiderStatus updates the rider's status and then promotes the user to
// the rider role.
func (s *RiderService) SetRiderStatus(ctx context.Context, req SetRiderStatusRequest) (*RiderStatusResult, error) {
	if !req.Status.Valid() {
		return nil, ErrInvalidRiderStatus
	}
	return s.changeStatus(ctx, req, domain.UserRoleRider)
}

// SuspendRider suspends the rider and demotes the user back to the user role.
func (s *RiderService) SuspendRider(ctx context.Context, riderID, email string) (*RiderStatusResult, error) {
	return s.changeStatus(ctx, SetRiderStatusRequest{
		RiderID: riderID,
		Status:  domain.RiderStatusSuspended,
		Email:   email,
	}, domain.UserRoleUser)
}

// changeStatus runs the two writes through the TxRunner. Without store
// transactions a failed role write leaves the rider status already changed.
func (s *RiderService) changeStatus(ctx context.Context, req SetRiderStatusRequest, role domain.UserRole) (*RiderStatusResult, error) {
	if req.RiderID == "" {
		return nil, ErrInvalidRiderID
	}

	var result RiderStatusResult
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, stores repository.Stores) error {
		rider, err := stores.Riders.GetByID(ctx, req.RiderID)
		if err != nil {
			return err
		}

		riderUpdate, err := stores.Riders.UpdateStatus(ctx, req.RiderID, req.Status)
		if err != nil {
			return err
		}

		email := req.Email
		if email == "" {
			email = rider.Email
		}

		userUpdate, err := stores.Users.UpdateRoleByEmail(ctx, email, role)
		if err != nil {
			return err
		}

		result = RiderStatusResult{
			RiderUpdate: riderUpdate,
			UserUpdate:  userUpdate,
			UserEmail:   email,
		}
		return nil
	})

	metrics.RiderStatusChanges.WithLabelValues(string(req.Status), metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	if s.roleCache != nil && result.UserUpdate.MatchedCount > 0 {
		if err := s.roleCache.InvalidateRole(ctx, result.UserEmail); err != nil {
			s.logger.Warn("role cache invalidation failed", zap.String("email", result.UserEmail), zap.Error(err))
		}
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRiderStatusChanged(ctx, req.RiderID, result.UserEmail, req.Status)
	}
	return &result, nil
}
