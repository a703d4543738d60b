package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"parcel/internal/domain"
	"parcel/internal/repository"
	"parcel/internal/service"
)

// RiderHandler handles HTTP requests for rider applications.
type RiderHandler struct {
	riderService *service.RiderService
	logger       *zap.Logger
}

// NewRiderHandler creates a new RiderHandler.
func NewRiderHandler(riderService *service.RiderService, logger *zap.Logger) *RiderHandler {
	return &RiderHandler{riderService: riderService, logger: logger}
}

// SubmitRiderRequest is the HTTP request body for a rider application.
type SubmitRiderRequest struct {
	Name             string             `json:"name"`
	Email            string             `json:"email" binding:"required"`
	Age              int                `json:"age" binding:"gte=0"`
	Phone            string             `json:"phone"`
	Region           string             `json:"region"`
	District         string             `json:"district"`
	NID              string             `json:"nid"`
	BikeBrand        string             `json:"bike_brand"`
	BikeRegistration string             `json:"bike_registration"`
	Status           domain.RiderStatus `json:"status" binding:"omitempty,rider_status"`
	CreatedAt        time.Time          `json:"created_at"`
	Details          map[string]any     `json:"details"`
}

// SetStatusRequest is the HTTP request body for PATCH /riders/:id.
type SetStatusRequest struct {
	Status domain.RiderStatus `json:"status" binding:"required,rider_status"`
	Email  string             `json:"email"`
}

// SuspendRequest is the HTTP request body for PATCH /riders/suspend/:id.
type SuspendRequest struct {
	Email string `json:"email"`
}

// RiderStatusResponse reports both writes of a status change.
type RiderStatusResponse struct {
	RiderUpdateResult repository.UpdateResult `json:"riderUpdateResult"`
	UserUpdateResult  repository.UpdateResult `json:"userUpdateResult"`
}

// Submit handles POST /riders
func (h *RiderHandler) Submit(c *gin.Context) {
	var req SubmitRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.riderService.SubmitApplication(c.Request.Context(), &domain.Rider{
		Name:             req.Name,
		Email:            req.Email,
		Age:              req.Age,
		Phone:            req.Phone,
		Region:           req.Region,
		District:         req.District,
		NID:              req.NID,
		BikeBrand:        req.BikeBrand,
		BikeRegistration: req.BikeRegistration,
		Status:           req.Status,
		CreatedAt:        req.CreatedAt,
		Details:          req.Details,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to submit rider info")
		return
	}

	respondJSON(c, http.StatusCreated, result)
}

// List handles GET /riders
func (h *RiderHandler) List(c *gin.Context) {
	h.list(c, h.riderService.ListRiders, "Failed to fetch riders")
}

// ListPending handles GET /riders/pending
func (h *RiderHandler) ListPending(c *gin.Context) {
	h.list(c, h.riderService.ListPendingRiders, "Failed to fetch pending riders")
}

// ListApproved handles GET /riders/approved
func (h *RiderHandler) ListApproved(c *gin.Context) {
	h.list(c, h.riderService.ListApprovedRiders, "Failed to fetch approved riders")
}

func (h *RiderHandler) list(c *gin.Context, fetch func(context.Context) ([]*domain.Rider, error), failure string) {
	riders, err := fetch(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, failure)
		return
	}

	respondJSON(c, http.StatusOK, nonNil(riders))
}

// SetStatus handles PATCH /riders/:id
func (h *RiderHandler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.riderService.SetRiderStatus(c.Request.Context(), service.SetRiderStatusRequest{
		RiderID: c.Param("id"),
		Status:  req.Status,
		Email:   req.Email,
	})
	h.respondStatusChange(c, result, err, "Failed to update rider status")
}

// Suspend handles PATCH /riders/suspend/:id
func (h *RiderHandler) Suspend(c *gin.Context) {
	var req SuspendRequest
	// The body is optional; without an email the rider's own is used.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	result, err := h.riderService.SuspendRider(c.Request.Context(), c.Param("id"), req.Email)
	h.respondStatusChange(c, result, err, "Failed to suspend rider")
}

func (h *RiderHandler) respondStatusChange(c *gin.Context, result *service.RiderStatusResult, err error, failure string) {
	if errors.Is(err, repository.ErrNotFound) {
		respondNotFound(c, "Rider not found")
		return
	}
	if err != nil {
		respondError(c, h.logger, err, failure)
		return
	}

	respondJSON(c, http.StatusOK, RiderStatusResponse{
		RiderUpdateResult: result.RiderUpdate,
		UserUpdateResult:  result.UserUpdate,
	})
}
