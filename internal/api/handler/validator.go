package handler

import (
	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/pkg/validation"
)

// echoValidator plugs the validation package into Echo so handlers can call c.Validate(req).
type echoValidator struct {
	v *validation.Validator
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validation.New()}
}

// Validate satisfies the echo.Validator interface. Rule failures come back as
// a domain validation error carrying every violation.
func (ev *echoValidator) Validate(i any) error {
	violations, err := ev.v.Struct(i)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return domain.ValidationFailed(violations)
	}
	return nil
}
