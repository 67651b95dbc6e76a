package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// MultipleErrors collects the errors of one operation that keeps going
// after the first failure, such as strict parsing of a whole doc comment.
type MultipleErrors struct {
	Errors []DocannoError
}

// NewMultipleErrors creates an empty collection
func NewMultipleErrors() *MultipleErrors {
	return &MultipleErrors{}
}

// AddToMultiple adds err to *multiple, allocating the collection on first use
func AddToMultiple(multiple **MultipleErrors, err DocannoError) {
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	(*multiple).Add(err)
}

// Error lists every collected error on its own line
func (e *MultipleErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(e.Errors))
	for _, msg := range e.Messages() {
		b.WriteString("\n  ")
		b.WriteString(msg)
	}
	return b.String()
}

// ErrorCode returns the code of the first error
func (e *MultipleErrors) ErrorCode() ErrorCode {
	if len(e.Errors) == 0 {
		return UnknownErrorCode
	}
	return e.Errors[0].ErrorCode()
}

// Location returns the location of the first error
func (e *MultipleErrors) Location() SourceLocation {
	if len(e.Errors) == 0 {
		return SourceLocation{}
	}
	return e.Errors[0].Location()
}

// Suggestions returns the suggestions of all errors, without repeats
func (e *MultipleErrors) Suggestions() []string {
	var suggestions []string
	seen := make(map[string]bool)
	for _, err := range e.Errors {
		for _, s := range err.Suggestions() {
			if !seen[s] {
				seen[s] = true
				suggestions = append(suggestions, s)
			}
		}
	}
	return suggestions
}

// Unwrap exposes every collected error to errors.Is and errors.As
func (e *MultipleErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add appends one error
func (e *MultipleErrors) Add(err DocannoError) {
	e.Errors = append(e.Errors, err)
}

// Merge absorbs err: the members of a MultipleErrors are added one by one,
// other DocannoErrors are added as they are. It reports false for errors
// it cannot hold.
func (e *MultipleErrors) Merge(err error) bool {
	var multi *MultipleErrors
	if stderrors.As(err, &multi) {
		e.Errors = append(e.Errors, multi.Errors...)
		return true
	}
	var single DocannoError
	if stderrors.As(err, &single) {
		e.Add(single)
		return true
	}
	return false
}

// Messages returns the message of every collected error in order
func (e *MultipleErrors) Messages() []string {
	messages := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		messages[i] = err.Error()
	}
	return messages
}

// IsEmpty reports whether nothing was collected
func (e *MultipleErrors) IsEmpty() bool {
	return len(e.Errors) == 0
}

// Count returns the number of errors
func (e *MultipleErrors) Count() int {
	return len(e.Errors)
}

// HasCode reports whether any collected error has code
func (e *MultipleErrors) HasCode(code ErrorCode) bool {
	for _, err := range e.Errors {
		if err.ErrorCode() == code {
			return true
		}
	}
	return false
}

// ErrOrNil returns nil for a nil or empty collection so callers can return
// it directly.
func (e *MultipleErrors) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}
