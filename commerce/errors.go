package commerce

import (
	"strings"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when the commerce API has no such product or checkout.
var ErrNotFound = errors.New("not found")

// FieldError is one user error reported by a mutation.
type FieldError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}

// UserError is returned when a mutation is rejected with user errors.
type UserError struct {
	Operation string
	Errors    []FieldError
}

func (e *UserError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return e.Operation + ": " + strings.Join(msgs, "; ")
}
