package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorKind classifies a failed generation
type ErrorKind string

const (
	ErrConfiguration ErrorKind = "ConfigurationError"
	ErrValidation    ErrorKind = "ValidationError"
	ErrAPI           ErrorKind = "ApiError"
	ErrTimeout       ErrorKind = "TimeoutError"
	ErrConnection    ErrorKind = "ConnectionError"
	ErrResponse      ErrorKind = "ResponseError"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError lists the request fields that failed validation
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Fields, "; ")
}

// Validate checks the caller-side invariants: non-empty name, type and
// category, and a rating between 1 and 5. Call it on a normalized request.
func (r GenerationRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "BusinessName":
		return "business name is required"
	case "BusinessType":
		return "business type is required"
	case "Category":
		return "category is required"
	case "StarRating":
		return "star rating must be between 1 and 5"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
