// Package config provides environment-variable loading with validation and
// fallback semantics shared by every component. Loaders never return errors:
// an invalid value falls back to the supplied default and produces a warning
// the caller is expected to log.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Result holds a loaded configuration value together with the warning
// generated when the environment value was rejected and the default applied.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

func fallback[T any](envKey, raw string, err error, def T) Result[T] {
	return Result[T]{
		Value:           def,
		Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to %v", envKey, raw, err, def),
		FallbackApplied: true,
	}
}

// LoadString reads a string from the environment, returning the default when
// the variable is unset or empty. No validation is applied.
func LoadString(envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

// LoadStringWith reads a string from the environment and validates it with
// the given function. A validation failure falls back to the default.
func LoadStringWith(envKey, defaultValue string, validate func(string) error) Result[string] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[string]{Value: defaultValue}
	}
	if validate != nil {
		if err := validate(raw); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return Result[string]{Value: raw}
}

// LoadDuration reads a Go duration string ("10s", "1m30s") from the
// environment. Parse or validation failures fall back to the default.
func LoadDuration(envKey string, defaultValue time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[time.Duration]{Value: defaultValue}
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback(envKey, raw, err, defaultValue)
	}
	if validate != nil {
		if err := validate(d); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return Result[time.Duration]{Value: d}
}

// LoadInt reads an integer from the environment. Parse or validation
// failures fall back to the default.
func LoadInt(envKey string, defaultValue int, validate func(int) error) Result[int] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[int]{Value: defaultValue}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback(envKey, raw, err, defaultValue)
	}
	if validate != nil {
		if err := validate(n); err != nil {
			return fallback(envKey, raw, err, defaultValue)
		}
	}
	return Result[int]{Value: n}
}

// LoadBool reads a boolean from the environment using strconv.ParseBool
// semantics ("1", "t", "true", "0", "f", "false", case-insensitive variants).
func LoadBool(envKey string, defaultValue bool) Result[bool] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[bool]{Value: defaultValue}
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback(envKey, raw, err, defaultValue)
	}
	return Result[bool]{Value: b}
}
