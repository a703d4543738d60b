package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"parcel/internal/gateway"
	"parcel/internal/repository"
	"parcel/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// publicMessages are the client-facing texts for expected failures.
var publicMessages = []struct {
	err     error
	message string
}{
	{service.ErrUserExists, "User already exists"},
	{service.ErrMissingEmail, "Email is required"},
	{service.ErrMissingEmailQuery, "Missing email query"},
	{service.ErrInvalidRole, "Invalid role"},
	{service.ErrInvalidUserID, "Invalid user id"},
	{service.ErrInvalidParcelID, "Invalid parcel id"},
	{service.ErrMissingCreator, "created_by is required"},
	{service.ErrInvalidPaymentStatus, "New parcels must be unpaid"},
	{service.ErrParcelAlreadyPaid, "Parcel already paid"},
	{service.ErrInvalidPaymentAmount, "Amount must be a positive number of cents"},
	{service.ErrMissingTransactionID, "transactionId is required"},
	{service.ErrInvalidRiderID, "Invalid rider id"},
	{service.ErrInvalidRiderStatus, "Invalid rider status"},
	{gateway.ErrNotConfigured, "Payments are not available"},
}

// respondError sends an error response with the appropriate HTTP status code.
// Unexpected failures are logged and answered with the static failure text.
func respondError(c *gin.Context, logger *zap.Logger, err error, failure string) {
	code := mapErrorToHTTPStatus(err)
	if code >= http.StatusInternalServerError {
		logger.Error(failure, zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Message: failure})
		return
	}

	logger.Debug(failure, zap.String("path", c.FullPath()), zap.Int("status", code), zap.Error(err))
	c.JSON(code, ErrorResponse{Message: publicMessage(err)})
}

// respondNotFound sends a 404 with the given message.
func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Message: message})
}

// respondBindError translates request binding failures into a 400. Failed
// enum validators report the same errors the services would.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch {
		case fe.Tag() == "user_role", fe.Field() == "Role":
			err = service.ErrInvalidRole
		case fe.Tag() == "rider_status", fe.Field() == "Status":
			err = service.ErrInvalidRiderStatus
		case fe.Field() == "Email":
			err = service.ErrMissingEmail
		case fe.Field() == "Amount":
			err = service.ErrInvalidPaymentAmount
		case fe.Field() == "ParcelID":
			err = service.ErrInvalidParcelID
		case fe.Field() == "TransactionID":
			err = service.ErrMissingTransactionID
		case fe.Field() == "CreatedBy":
			err = service.ErrMissingCreator
		default:
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: fe.Field() + " failed validation: " + fe.Tag()})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: publicMessage(err)})
		return
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

func publicMessage(err error) string {
	for _, m := range publicMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	if errors.Is(err, repository.ErrNotFound) {
		return "Not found"
	}
	return err.Error()
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrMissingEmail),
		errors.Is(err, service.ErrMissingEmailQuery),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidParcelID),
		errors.Is(err, service.ErrMissingCreator),
		errors.Is(err, service.ErrInvalidPaymentStatus),
		errors.Is(err, service.ErrInvalidPaymentAmount),
		errors.Is(err, service.ErrMissingTransactionID),
		errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidRiderStatus):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, service.ErrParcelAlreadyPaid):
		return http.StatusConflict

	case errors.Is(err, gateway.ErrNotConfigured):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
