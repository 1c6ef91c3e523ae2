package prompt

import (
	"errors"
	"fmt"
)

// ErrMissingField is returned by [Build] when a value the template needs is
// absent from the employee record.
var ErrMissingField = errors.New("prompt: missing required field")

// missingField wraps [ErrMissingField] with the specific field name.
func missingField(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}
