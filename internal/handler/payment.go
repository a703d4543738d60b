package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"parcel/internal/domain"
	"parcel/internal/repository"
	"parcel/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, logger: logger}
}

// PaymentIntentRequest is the HTTP request body for a payment intent.
type PaymentIntentRequest struct {
	// Amount is in cents.
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// PaymentIntentResponse carries the client secret for the payment UI.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// RecordPaymentRequest is the HTTP request body for recording a payment.
type RecordPaymentRequest struct {
	ParcelID      string   `json:"parcelId" binding:"required"`
	Email         string   `json:"email"`
	Amount        float64  `json:"amount" binding:"gte=0"`
	PaymentMethod []string `json:"paymentMethod"`
	TransactionID string   `json:"transactionId" binding:"required"`
}

// RecordPaymentResponse is the HTTP response for a recorded payment.
type RecordPaymentResponse struct {
	Message             string                  `json:"message"`
	ParcelUpdateResult  repository.UpdateResult `json:"parcelUpdateResult"`
	PaymentInsertResult repository.InsertResult `json:"paymentInsertResult"`
}

// CreateIntent handles POST /create-payment-intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	secret, err := h.paymentService.CreatePaymentIntent(c.Request.Context(), req.Amount)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create payment intent")
		return
	}

	respondJSON(c, http.StatusOK, PaymentIntentResponse{ClientSecret: secret})
}

// Record handles POST /payments
func (h *PaymentHandler) Record(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), &domain.Payment{
		ParcelID:      req.ParcelID,
		Email:         req.Email,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	})
	if errors.Is(err, repository.ErrNotFound) {
		respondNotFound(c, "Parcel not found")
		return
	}
	if err != nil {
		respondError(c, h.logger, err, "Failed to process payment")
		return
	}

	respondJSON(c, http.StatusCreated, RecordPaymentResponse{
		Message:             "Payment processed successfully",
		ParcelUpdateResult:  result.ParcelUpdate,
		PaymentInsertResult: result.PaymentInsert,
	})
}

// List handles GET /payments?email=
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.paymentService.ListPayments(c.Request.Context(), c.Query("email"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch payments")
		return
	}

	respondJSON(c, http.StatusOK, nonNil(payments))
}
