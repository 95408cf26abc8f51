package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("validation failed")

// StructValidator validates commands and queries against their
// `validate` struct tags.
type StructValidator struct {
	validate *validator.Validate
}

func NewStructValidator() *StructValidator {
	return &StructValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *StructValidator) Validate(ctx context.Context, message any) error {
	if message == nil {
		return nil
	}
	err := v.validate.StructCtx(ctx, message)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		// Non-struct messages carry no tags to check.
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fmt.Sprintf("%s %s", fe.Field(), describeTag(fe)))
		}
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(parts, "; "))
	}
	return err
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "is below the minimum of " + fe.Param()
	case "max":
		return "exceeds the maximum of " + fe.Param()
	case "email":
		return "is not a valid email"
	default:
		return "failed rule " + fe.Tag()
	}
}
