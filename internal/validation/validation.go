package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Errors collects field-level validation failures so a single validation pass
// can report every violated field instead of only the first one.
type Errors struct {
	fields map[string]string
}

func NewErrors() *Errors {
	return &Errors{fields: map[string]string{}}
}

// Add records a failure for the given field. The first message per field wins.
func (e *Errors) Add(field, message string) {
	if _, exists := e.fields[field]; exists {
		return
	}
	e.fields[field] = message
}

func (e *Errors) HasErrors() bool {
	return len(e.fields) > 0
}

// Fields returns a copy of the field -> message map.
func (e *Errors) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for field, message := range e.fields {
		out[field] = message
	}
	return out
}

// ErrOrNil returns the collected errors as an error, or nil when everything
// validated. Callers should always return the result of this instead of a
// possibly-empty *Errors, so that a nil error stays nil.
func (e *Errors) ErrOrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *Errors) Error() string {
	fields := make([]string, 0, len(e.fields))
	for field := range e.fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
