package server

import "github.com/go-playground/validator/v10"

// CustomValidator adapts go-playground/validator to echo's Validator
// interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a struct-tag validator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate runs struct-tag validation on i.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
