package handler

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"parcel/internal/domain"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidations installs the enum validators used in request binding
// tags on gin's validator engine.
func RegisterValidations() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding engine is not go-playground/validator")
			return
		}

		if err := v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
			return domain.UserRole(fl.Field().String()).Valid()
		}); err != nil {
			registerErr = err
			return
		}

		registerErr = v.RegisterValidation("rider_status", func(fl validator.FieldLevel) bool {
			return domain.RiderStatus(fl.Field().String()).Valid()
		})
	})
	return registerErr
}
