package cli

import (
	"github.com/toyz/docanno/internal/errors"
	"github.com/toyz/docanno/internal/utils"
	"github.com/toyz/docanno/pkg/annotations"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the configuration for the CLI
type Config struct {
	// Targets is the list of directories to scan; "dir/..." recurses
	Targets []string

	// TypeName restricts output to one type ("Name" or "pkg.Name")
	TypeName string

	// Property restricts property output to one property of TypeName
	Property string

	// Format is the output format, text or json
	Format string

	// UsePackages loads targets as package patterns through the go tool
	// instead of parsing directories directly
	UsePackages bool

	// Parser options
	Strict         bool
	StripMode      string
	ValueMode      string
	TrimDecoration bool

	// ModuleName overrides the module path shown in output
	// If empty, will be determined from go.mod file
	ModuleName string

	// Serve runs the HTTP lookup service on this address instead of printing
	Serve string

	// Framework selects the HTTP framework for Serve
	Framework string

	Verbose bool
	Quiet   bool
}

// Validate checks the configuration for contradictions
func (c *Config) Validate() error {
	if err := utils.SliceNotEmpty[string]("targets")(c.Targets); err != nil {
		return errors.ConfigurationError("targets", "at least one directory path is required")
	}

	if err := utils.IsOneOf("format", FormatText, FormatJSON)(c.Format); err != nil {
		return err
	}

	if c.Serve != "" {
		if err := utils.NotEmpty("framework")(c.Framework); err != nil {
			return err
		}
	}

	if c.Property != "" && c.TypeName == "" {
		return errors.ConfigurationError("property", "-property requires -type")
	}

	if c.Verbose && c.Quiet {
		return errors.ConfigurationError("verbosity", "-verbose and -quiet are mutually exclusive")
	}

	if _, err := c.ParserOptions(); err != nil {
		return err
	}

	return nil
}

// ParserOptions converts the parser flags into annotation parser options
func (c *Config) ParserOptions() (annotations.Options, error) {
	opts := annotations.DefaultOptions()

	strip, err := annotations.ParseStripMode(c.StripMode)
	if err != nil {
		return opts, errors.ConfigurationError("strip", err.Error())
	}
	values, err := annotations.ParseValueMode(c.ValueMode)
	if err != nil {
		return opts, errors.ConfigurationError("values", err.Error())
	}

	opts.Strip = strip
	opts.Values = values
	opts.TrimDecoration = c.TrimDecoration
	opts.Strict = c.Strict
	return opts, nil
}

// DiagnosticLevel maps the verbosity flags to a diagnostic level
func (c *Config) DiagnosticLevel() utils.DiagnosticLevel {
	switch {
	case c.Quiet:
		return utils.DiagnosticError
	case c.Verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}
