// internal/app/features/registry/errors.go
package registry

import (
	"errors"
	"fmt"

	"github.com/sroam/sroregistry/internal/app/system/inputval"
)

var (
	// ErrNotFound is returned when an id, INN or registry number matches nothing.
	ErrNotFound = errors.New("member not found")
	// ErrInvalidID is returned for identifiers that are not ObjectID hex.
	ErrInvalidID = errors.New("invalid member id")
)

// ValidationError carries field-level failures detected before any store access.
type ValidationError struct {
	Fields []inputval.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
}

func newValidationError(res *inputval.Result) *ValidationError {
	return &ValidationError{Fields: res.Errors}
}

// ConflictError reports a uniqueness violation on Field ("inn" or "registryNumber"),
// whether caught by the pre-check or by the unique index.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func innConflict() *ConflictError {
	return &ConflictError{Field: "inn", Message: "A member with this INN already exists."}
}

func registryNumberConflict() *ConflictError {
	return &ConflictError{Field: "registryNumber", Message: "A member with this registry number already exists."}
}
