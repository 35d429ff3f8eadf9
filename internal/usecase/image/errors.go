package image

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fhuszti/stored-images-ms-go/internal/validation"
)

var (
	ErrNotFound = errors.New("image not found")
	// ErrDuplicateActive is returned by the repository when an insert collides
	// with an active record for the same Mayo image and org unit.
	ErrDuplicateActive = errors.New("active image already exists for this org unit")
)

// ValidationError lists the fields that failed, with the rule each one broke.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// NewValidationError converts a validator error into a *ValidationError.
func NewValidationError(err error) *ValidationError {
	return &ValidationError{Fields: validation.ErrorsToMap(err)}
}

func fieldError(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}
