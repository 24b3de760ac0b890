package routes

import (
	"ticketly/internal/shared/utils/seatid"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom binding validators. Must run once
// before the engine starts serving.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("seatid", func(fl validator.FieldLevel) bool {
			return seatid.Valid(fl.Field().String())
		})
	}
}
