package domain

import "fmt"

// ValidationError marks a required field that was missing or empty on a write
// path.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
