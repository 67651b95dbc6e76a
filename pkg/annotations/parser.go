// Package annotations extracts @Name and @Name(args) metadata from
// documentation comments.
//
// A comment such as
//
//	/**
//	 * @Entity
//	 * @Column(type=string, primary_key)
//	 */
//
// parses into a bare entry "Entity" and a named entry "column" whose
// arguments are {type: "string", 0: "primary_key"}.
package annotations

import (
	"strings"

	"github.com/toyz/docanno/internal/errors"
)

// Parser turns raw doc comments into Annotations. It holds no mutable
// state and is safe for concurrent use.
type Parser struct {
	opts Options
}

// NewParser creates a parser with the given options
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

var defaultParser = NewParser(DefaultOptions())

// Parse parses a raw doc comment with the legacy permissive options.
// An empty string stands for a missing comment and yields an empty result.
func Parse(raw string) *Annotations {
	// the permissive parser never reports errors
	result, _ := defaultParser.Parse(raw)
	return result
}

// Options returns the options the parser was created with
func (p *Parser) Options() Options {
	return p.opts
}

// Parse parses a raw doc comment. Errors are only returned in strict mode.
func (p *Parser) Parse(raw string) (*Annotations, error) {
	return p.ParseAt(raw, SourceLocation{})
}

// ParseAt parses a raw doc comment that starts at origin. The origin is
// only used to position strict-mode errors.
func (p *Parser) ParseAt(raw string, origin SourceLocation) (*Annotations, error) {
	var errs *errors.MultipleErrors

	body, offset, wrapped := p.strip(raw)
	if p.opts.Strict && !wrapped {
		errors.AddToMultiple(&errs, errors.NewSyntaxError(
			"doc comment is not wrapped in /* */ delimiters", "", origin.At(0, 1)))
	}

	result := newAnnotations()
	for i, rawLine := range strings.Split(body, "\n") {
		line := trimASCII(rawLine)
		if p.opts.TrimDecoration {
			line = trimDecoration(line)
		}

		// Everything up to the rightmost '@' is dropped, so "a@b@c" keeps
		// only "c". Lines without '@' are kept as they are.
		marked := false
		if at := strings.LastIndexByte(line, '@'); at >= 0 {
			line = line[at+1:]
			marked = true
		}

		line = trimASCII(line)
		if line == "" {
			continue
		}

		if p.opts.Strict && marked {
			column := strings.Index(rawLine, line) + 1
			if i == 0 {
				column += offset
			}
			if err := p.validateLine(line, origin.At(i, column)); err != nil {
				errors.AddToMultiple(&errs, err)
			}
		}

		open := strings.IndexByte(line, '(')
		closing := strings.LastIndexByte(line, ')')
		if open >= 0 && closing >= 0 {
			name := lowerASCII(trimASCII(line[:open]))
			result.set(name, p.parseArgs(argumentList(line, open, closing)))
			continue
		}

		result.addBare(line)
	}

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return result, nil
}

// strip removes the wrapping delimiters and reports how many bytes were
// dropped from the first line and whether the comment looked well formed.
func (p *Parser) strip(raw string) (body string, offset int, wrapped bool) {
	if raw == "" {
		return "", 0, true
	}

	if p.opts.Strip == StripDelimiters {
		trimmed := trimASCII(raw)
		offset = strings.Index(raw, trimmed)
		wrapped = len(trimmed) >= 4 && strings.HasPrefix(trimmed, "/*") && strings.HasSuffix(trimmed, "*/")
		if !wrapped {
			return trimmed, offset, false
		}
		trimmed = trimmed[:len(trimmed)-2]
		switch {
		case strings.HasPrefix(trimmed, "/**"):
			return trimmed[3:], offset + 3, true
		default:
			return trimmed[2:], offset + 2, true
		}
	}

	wrapped = len(raw) >= 5 && strings.HasPrefix(raw, "/*") && strings.HasSuffix(raw, "*/")
	if len(raw) <= 5 {
		return "", 0, wrapped
	}
	return raw[3 : len(raw)-2], 3, wrapped
}

// argumentList returns the text strictly between the first '(' and the
// last ')', or "" when the last ')' comes before the first '('.
func argumentList(line string, open, closing int) string {
	if closing <= open {
		return ""
	}
	return line[open+1 : closing]
}

func (p *Parser) parseArgs(list string) *Args {
	args := newArgs()
	for _, token := range strings.Split(list, ",") {
		token = trimASCII(token)
		if token == "" {
			continue
		}

		if strings.Contains(token, "=") {
			key, value := p.splitArg(token)
			args.set(key, value)
			continue
		}

		args.add(token)
	}
	return args
}

// splitArg splits key=value on the first '='. In ValueTruncate mode the
// value also stops at the second '=' and later segments are discarded.
func (p *Parser) splitArg(token string) (string, string) {
	key, value, _ := strings.Cut(token, "=")
	if p.opts.Values == ValueTruncate {
		value, _, _ = strings.Cut(value, "=")
	}
	return lowerASCII(trimASCII(key)), value
}

func trimDecoration(line string) string {
	switch {
	case strings.HasPrefix(line, "//"):
		return trimASCII(line[2:])
	case strings.HasPrefix(line, "*"):
		return trimASCII(line[1:])
	default:
		return line
	}
}


// asciiSpace is the set of bytes trimmed from lines, names and tokens. Other
// Unicode spaces such as U+00A0 are content.
const asciiSpace = " \t\n\r\v\x00"

func trimASCII(s string) string {
	return strings.Trim(s, asciiSpace)
}

// lowerASCII folds A-Z only; other letters keep their case
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
