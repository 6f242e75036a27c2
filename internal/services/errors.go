package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
)

// Wrap tags err with marker (ErrExternalTool when nil) and prefixes it with
// the operation and step names, so callers can both print and classify it.
func Wrap(marker error, operation, step, message string, err error) error {
	detail := buildDetail(operation, step, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Validation is shorthand for a validation failure with a formatted message.
func Validation(operation, format string, args ...any) error {
	return Wrap(ErrValidation, operation, "", fmt.Sprintf(format, args...), nil)
}

// ExitStatus maps an error to the process exit status the CLI reports.
// Usage and validation problems exit 2, everything else exits 1.
func ExitStatus(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return 2
	default:
		return 1
	}
}

// buildDetail joins the non-blank context parts as "resize: probe: msg".
func buildDetail(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return "operation failure"
	}
	return strings.Join(kept, ": ")
}
