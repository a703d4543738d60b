package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"parcel/internal/domain"
	"parcel/internal/repository"
	"parcel/internal/service"
)

// ParcelHandler handles HTTP requests for parcels.
type ParcelHandler struct {
	parcelService *service.ParcelService
	logger        *zap.Logger
}

// NewParcelHandler creates a new ParcelHandler.
func NewParcelHandler(parcelService *service.ParcelService, logger *zap.Logger) *ParcelHandler {
	return &ParcelHandler{parcelService: parcelService, logger: logger}
}

// CreateParcelRequest is the HTTP request body for booking a parcel.
type CreateParcelRequest struct {
	CreatedBy       string               `json:"created_by" binding:"required"`
	Title           string               `json:"title"`
	Type            string               `json:"type"`
	Weight          float64              `json:"weight" binding:"gte=0"`
	Cost            float64              `json:"cost" binding:"gte=0"`
	SenderName      string               `json:"sender_name"`
	SenderContact   string               `json:"sender_contact"`
	SenderRegion    string               `json:"sender_region"`
	SenderAddress   string               `json:"sender_address"`
	ReceiverName    string               `json:"receiver_name"`
	ReceiverContact string               `json:"receiver_contact"`
	ReceiverRegion  string               `json:"receiver_region"`
	ReceiverAddress string               `json:"receiver_address"`
	TrackingID      string               `json:"tracking_id"`
	PaymentStatus   domain.PaymentStatus `json:"payment_status"`
	DeliveryStatus  string               `json:"delivery_status"`
	CreatedAt       time.Time            `json:"createdAt"`
	Details         map[string]any       `json:"details"`
}

// List handles GET /parcels?email=
func (h *ParcelHandler) List(c *gin.Context) {
	parcels, err := h.parcelService.ListParcels(c.Request.Context(), c.Query("email"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch parcels")
		return
	}

	respondJSON(c, http.StatusOK, nonNil(parcels))
}

// Get handles GET /parcels/:id
func (h *ParcelHandler) Get(c *gin.Context) {
	parcel, err := h.parcelService.GetParcel(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		respondNotFound(c, "Parcel not found")
		return
	}
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch parcel")
		return
	}

	respondJSON(c, http.StatusOK, parcel)
}

// Create handles POST /parcels
func (h *ParcelHandler) Create(c *gin.Context) {
	var req CreateParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.parcelService.CreateParcel(c.Request.Context(), &domain.Parcel{
		CreatedBy:       req.CreatedBy,
		Title:           req.Title,
		Type:            req.Type,
		Weight:          req.Weight,
		Cost:            req.Cost,
		SenderName:      req.SenderName,
		SenderContact:   req.SenderContact,
		SenderRegion:    req.SenderRegion,
		SenderAddress:   req.SenderAddress,
		ReceiverName:    req.ReceiverName,
		ReceiverContact: req.ReceiverContact,
		ReceiverRegion:  req.ReceiverRegion,
		ReceiverAddress: req.ReceiverAddress,
		TrackingID:      req.TrackingID,
		PaymentStatus:   req.PaymentStatus,
		DeliveryStatus:  req.DeliveryStatus,
		CreatedAt:       req.CreatedAt,
		Details:         req.Details,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to create parcel")
		return
	}

	respondJSON(c, http.StatusCreated, result)
}

// Delete handles DELETE /parcels/:id
func (h *ParcelHandler) Delete(c *gin.Context) {
	result, err := h.parcelService.DeleteParcel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to delete parcel")
		return
	}

	respondJSON(c, http.StatusOK, result)
}
