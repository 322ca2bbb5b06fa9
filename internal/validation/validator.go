package validation

import (
	"regexp"
	"strconv"
	"strings"

	"exam-byte/internal/domain"
)

const (
	MaxAnswerLength  = 64
	MaxPaperIDLength = 64
	MaxAttemptLimit  = 100
)

var paperIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAnswer checks value against the question kind. Single-choice
// answers must name one of the options; numerical answers must be blank or
// parse as a number.
func (v *Validator) ValidateAnswer(q domain.Question, value string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(value) > MaxAnswerLength {
		return append(errors, domain.NewOutOfRangeError("value", len(value), 0, MaxAnswerLength))
	}

	if q.IsNumericalType() {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			errors = append(errors, domain.NewInvalidFormatError("value", value))
		}
		return errors
	}

	if value == "" {
		return append(errors, domain.NewMissingFieldError("value"))
	}
	if _, ok := q.Options[value]; !ok {
		err := domain.NewInvalidFormatError("value", value)
		err.Message = "value must be one of " + strings.Join(q.OptionLetters(), ", ")
		errors = append(errors, err)
	}
	return errors
}

// ValidateIndex requires a palette index to be present. Any value is
// accepted; the session clamps it into range.
func (v *Validator) ValidateIndex(index *int) domain.ValidationErrors {
	if index == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("index")}
	}
	return nil
}

// ValidatePaperID accepts an empty id (latest or demo paper) or a simple slug.
func (v *Validator) ValidatePaperID(id string) domain.ValidationErrors {
	if id == "" {
		return nil
	}
	if len(id) > MaxPaperIDLength {
		return domain.ValidationErrors{domain.NewOutOfRangeError("paper_id", len(id), 1, MaxPaperIDLength)}
	}
	if !paperIDPattern.MatchString(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("paper_id", id)}
	}
	return nil
}

// ValidateAttemptLimit checks the attempts page size. Zero selects the default.
func (v *Validator) ValidateAttemptLimit(limit int) domain.ValidationErrors {
	if limit < 0 || limit > MaxAttemptLimit {
		return domain.ValidationErrors{domain.NewOutOfRangeError("limit", limit, 1, MaxAttemptLimit)}
	}
	return nil
}
