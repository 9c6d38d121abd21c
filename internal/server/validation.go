package server

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs custom rules on gin's binding validator.
// Idempotent; call once at startup.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("clocktime", validClockTime)
	}
}

// validClockTime accepts HH:MM or HH:MM:SS wall-clock times, the formats
// postgres TIME columns round-trip through.
func validClockTime(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if _, err := time.Parse("15:04:05", value); err == nil {
		return true
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}
