package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

var (
	// Vietnamese mobile numbers: 0xxxxxxxxx or +84xxxxxxxxx.
	vnPhoneRe = regexp.MustCompile(`^(0|\+84)\d{9}$`)
	// CCCD: 12-digit citizen identity number.
	cccdRe = regexp.MustCompile(`^\d{12}$`)
)

func init() {
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
	validate.RegisterValidation("vn_phone", func(fl validator.FieldLevel) bool {
		return vnPhoneRe.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("cccd", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || cccdRe.MatchString(s)
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
