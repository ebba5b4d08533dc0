package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	phoneRegex   = regexp.MustCompile(`^(\+91)?[6-9][0-9]{9}$`)
	pincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// NewValidator returns a validator with the shop's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("phone_in", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodeRegex.MatchString(fl.Field().String())
	})

	return v
}

func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

func IsValidPincode(pincode string) bool {
	return pincodeRegex.MatchString(pincode)
}

// NormalizePhone drops the +91 country prefix so a number has one stored form.
func NormalizePhone(phone string) string {
	if len(phone) == 13 && phone[:3] == "+91" {
		return phone[3:]
	}
	return phone
}
