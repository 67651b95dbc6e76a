package utils

import (
	"fmt"
	"strings"

	"github.com/toyz/docanno/internal/errors"
)

// Validator checks one configuration value. Failures are configuration
// errors carrying the setting name in their context.
type Validator[T any] func(T) error

// NotEmpty rejects an empty string setting
func NotEmpty(setting string) Validator[string] {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.ConfigurationError(setting, "cannot be empty")
		}
		return nil
	}
}

// IsOneOf rejects values outside allowed
func IsOneOf[T comparable](setting string, allowed ...T) Validator[T] {
	return func(value T) error {
		for _, candidate := range allowed {
			if value == candidate {
				return nil
			}
		}

		names := make([]string, len(allowed))
		for i, candidate := range allowed {
			names[i] = fmt.Sprint(candidate)
		}
		return errors.ConfigurationError(setting,
			fmt.Sprintf("%v is not one of %s", value, strings.Join(names, ", ")))
	}
}

// SliceNotEmpty rejects an empty list setting
func SliceNotEmpty[T any](setting string) Validator[[]T] {
	return func(value []T) error {
		if len(value) == 0 {
			return errors.ConfigurationError(setting, "cannot be empty")
		}
		return nil
	}
}
