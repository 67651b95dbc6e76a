package annotations

import "fmt"

// StripMode selects how the wrapping comment delimiters are removed
type StripMode int

const (
	// StripFixedOffset drops exactly 3 leading and 2 trailing bytes,
	// whatever they are. Comments of 5 bytes or fewer yield an empty body.
	StripFixedOffset StripMode = iota
	// StripDelimiters removes a leading "/**" or "/*" and a trailing "*/"
	// only when they are actually present.
	StripDelimiters
)

// String returns the flag name of the strip mode
func (m StripMode) String() string {
	switch m {
	case StripFixedOffset:
		return "legacy"
	case StripDelimiters:
		return "delimiters"
	default:
		return "unknown"
	}
}

// ParseStripMode converts a flag value to a StripMode
func ParseStripMode(s string) (StripMode, error) {
	switch s {
	case "legacy", "":
		return StripFixedOffset, nil
	case "delimiters":
		return StripDelimiters, nil
	default:
		return 0, fmt.Errorf("unknown strip mode: %s", s)
	}
}

// ValueMode selects how a key=value token with several '=' is split
type ValueMode int

const (
	// ValueTruncate keeps only the text between the first and second '=':
	// "k=v=w=z" becomes k -> "v".
	ValueTruncate ValueMode = iota
	// ValueRemainder keeps everything after the first '=':
	// "k=v=w=z" becomes k -> "v=w=z".
	ValueRemainder
)

// String returns the flag name of the value mode
func (m ValueMode) String() string {
	switch m {
	case ValueTruncate:
		return "truncate"
	case ValueRemainder:
		return "remainder"
	default:
		return "unknown"
	}
}

// ParseValueMode converts a flag value to a ValueMode
func ParseValueMode(s string) (ValueMode, error) {
	switch s {
	case "truncate", "":
		return ValueTruncate, nil
	case "remainder":
		return ValueRemainder, nil
	default:
		return 0, fmt.Errorf("unknown value mode: %s", s)
	}
}

// Options configures a Parser. The zero value reproduces the legacy
// permissive behavior.
type Options struct {
	Strip  StripMode
	Values ValueMode

	// TrimDecoration removes a leading "*" or "//" from every line before
	// the marker is located, so plain description lines do not keep their
	// decoration in the bare list.
	TrimDecoration bool

	// Strict makes Parse report malformed annotation lines instead of
	// silently degrading.
	Strict bool
}

// DefaultOptions returns the legacy permissive options
func DefaultOptions() Options {
	return Options{}
}

// StrictOptions returns delimiter-aware, validating options
func StrictOptions() Options {
	return Options{
		Strip:          StripDelimiters,
		Values:         ValueRemainder,
		TrimDecoration: true,
		Strict:         true,
	}
}
