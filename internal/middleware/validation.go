package middleware

import (
	"strconv"

	"exam-byte/internal/domain"
	"exam-byte/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedPaperIDKey = "validated_paper_id"
	ValidatedLimitKey   = "validated_limit"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateAttemptListParams validates the :id path parameter and the
// optional limit query parameter of the attempt history route.
func (vm *ValidationMiddleware) ValidateAttemptListParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		paperID := c.Params("id")
		var errs domain.ValidationErrors
		if paperID == "" {
			errs = append(errs, domain.NewMissingFieldError("id"))
		} else {
			errs = append(errs, vm.validator.ValidatePaperID(paperID)...)
		}

		limit := 0
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				errs = append(errs, domain.NewInvalidFormatError("limit", raw))
			} else {
				limit = parsed
				errs = append(errs, vm.validator.ValidateAttemptLimit(limit)...)
			}
		}

		if len(errs) > 0 {
			return errs
		}

		c.Locals(ValidatedPaperIDKey, paperID)
		c.Locals(ValidatedLimitKey, limit)
		return c.Next()
	}
}
