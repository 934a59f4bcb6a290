package entity

import "fmt"

// ValidationError reports a request field that failed validation. The only
// checks in this service are presence checks, so Message is typically
// "is required". The formatted text is part of the API surface: handlers
// pass it through to clients on 400 responses.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
