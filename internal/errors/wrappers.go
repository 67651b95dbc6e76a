package errors

import "fmt"

// SyntaxError reports a malformed annotation line
type SyntaxError struct {
	*BaseError
	Line string // the annotation text that failed to parse
}

// NewSyntaxError creates a syntax error for the given annotation text
func NewSyntaxError(message, line string, loc SourceLocation) *SyntaxError {
	err := &SyntaxError{
		BaseError: New(SyntaxErrorCode, message).WithLocation(loc),
		Line:      line,
	}
	if line != "" {
		err.WithContext("line", line)
	}
	return err
}

// WithHint adds a suggestion and keeps the concrete type for chaining
func (e *SyntaxError) WithHint(hint string) *SyntaxError {
	e.WithSuggestion(hint)
	return e
}

// LookupError reports a type or property that the source does not know about
type LookupError struct {
	*BaseError
	Target string
}

// NewLookupError creates a lookup error for target wrapping cause
func NewLookupError(target string, cause error) *LookupError {
	return &LookupError{
		BaseError: Wrap(LookupErrorCode, fmt.Sprintf("failed to look up '%s'", target), cause).
			WithContext("target", target),
		Target: target,
	}
}

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, item)
	return Wrap(UnknownErrorCode, message, cause)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// ConfigurationError creates a configuration error
func ConfigurationError(setting, message string) *BaseError {
	fullMessage := fmt.Sprintf("invalid %s: %s", setting, message)
	return New(ConfigurationErrorCode, fullMessage).
		WithContext("setting", setting)
}
