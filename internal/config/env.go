package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envReader reads typed environment variables, recording a parse error for
// every malformed value instead of silently using the default.
type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func newEnvReader(lookup func(string) (string, bool)) *envReader {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &envReader{lookup: lookup}
}

func (r *envReader) raw(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// String returns the environment value or defaultValue when unset or blank.
func (r *envReader) String(key, defaultValue string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return defaultValue
}

// Bool parses a boolean environment variable with default.
func (r *envReader) Bool(key string, defaultValue bool) bool {
	v, ok := r.raw(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, "expected a boolean")
		return defaultValue
	}
	return parsed
}

// Int parses an integer environment variable with default.
func (r *envReader) Int(key string, defaultValue int) int {
	v, ok := r.raw(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, "expected an integer")
		return defaultValue
	}
	return parsed
}

// Float parses a float environment variable with default.
func (r *envReader) Float(key string, defaultValue float64) float64 {
	v, ok := r.raw(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, v, "expected a number")
		return defaultValue
	}
	return parsed
}

// Duration parses a duration environment variable with default.
// Supports formats like "30s", "1m", "2h".
func (r *envReader) Duration(key string, defaultValue time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		return defaultValue
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, "expected a duration such as 10s")
		return defaultValue
	}
	return parsed
}

func (r *envReader) fail(key, value, reason string) {
	r.errs = append(r.errs, fmt.Errorf("%s=%q: %s", key, value, reason))
}

// Err returns every parse failure joined, or nil.
func (r *envReader) Err() error {
	return errors.Join(r.errs...)
}
