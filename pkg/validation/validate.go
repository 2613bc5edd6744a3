package validation

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("listing_status", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "active", "pending", "sold", "removed":
			return true
		}
		return false
	})

	_ = validate.RegisterValidation("meeting_status", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "proposed", "confirmed", "cancelled", "completed":
			return true
		}
		return false
	})

	_ = validate.RegisterValidation("model_year", func(fl validator.FieldLevel) bool {
		year := fl.Field().Int()
		return year >= 1900 && year <= int64(time.Now().Year())+1
	})

	_ = validate.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return t.After(time.Now())
	})
}

// ValidateStruct validates a struct and returns a ValidationError on failure
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			return NewValidationError(errs)
		}
		return err
	}
	return nil
}
