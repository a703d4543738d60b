package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"parcel/internal/domain"
	"parcel/internal/repository"
	"parcel/internal/service"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// CreateUserRequest is the HTTP request body for user registration.
type CreateUserRequest struct {
	Email     string          `json:"email" binding:"required"`
	Name      string          `json:"name"`
	PhotoURL  string          `json:"photoURL"`
	Role      domain.UserRole `json:"role" binding:"omitempty,user_role"`
	CreatedAt time.Time       `json:"created_at"`
	LastLogin time.Time       `json:"last_log_in"`
	Details   map[string]any  `json:"details"`
}

// UpdateRoleRequest is the HTTP request body for a role change.
type UpdateRoleRequest struct {
	Role domain.UserRole `json:"role" binding:"required,user_role"`
}

// UpdateRoleResponse is the HTTP response for a role change.
type UpdateRoleResponse struct {
	ModifiedCount int64  `json:"modifiedCount"`
	Message       string `json:"message"`
}

// RoleResponse is the HTTP response for a role lookup.
type RoleResponse struct {
	Role domain.UserRole `json:"role"`
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.userService.CreateUser(c.Request.Context(), &domain.User{
		Email:     req.Email,
		Name:      req.Name,
		PhotoURL:  req.PhotoURL,
		Role:      req.Role,
		CreatedAt: req.CreatedAt,
		LastLogin: req.LastLogin,
		Details:   req.Details,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to create user")
		return
	}

	respondJSON(c, http.StatusCreated, result)
}

// Search handles GET /users/search?email=
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.userService.SearchUsersByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		respondError(c, h.logger, err, "Error searching users")
		return
	}

	respondJSON(c, http.StatusOK, nonNil(users))
}

// GetRole handles GET /users/:email/role
func (h *UserHandler) GetRole(c *gin.Context) {
	role, err := h.userService.GetUserRole(c.Request.Context(), c.Param("email"))
	if errors.Is(err, repository.ErrNotFound) {
		respondNotFound(c, "User not found")
		return
	}
	if err != nil {
		respondError(c, h.logger, err, "Failed to get role")
		return
	}

	respondJSON(c, http.StatusOK, RoleResponse{Role: role})
}

// UpdateRole handles PATCH /users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.userService.UpdateUserRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		if mapErrorToHTTPStatus(err) != http.StatusInternalServerError {
			respondError(c, h.logger, err, "Failed to update user role")
			return
		}
		h.logger.Error("Failed to update user role", zap.String("id", c.Param("id")), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to update user role",
			Error:   err.Error(),
		})
		return
	}

	respondJSON(c, http.StatusOK, UpdateRoleResponse{
		ModifiedCount: result.ModifiedCount,
		Message:       fmt.Sprintf("User role updated to %s", req.Role),
	})
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
