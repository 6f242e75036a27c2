package logging

import (
	"context"
	"log/slog"

	"vidtools/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldJobID is the standardized key for the identifier of a single ffmpeg run.
	FieldJobID = "job_id"
	// FieldOperation is the standardized key for the operation (resize, cut, ...).
	FieldOperation = "operation"
	// FieldPreset names the preset an operation was expanded from.
	FieldPreset = "preset"
)

// ContextFields returns the job_id, operation and preset attributes carried
// by ctx, in that order, skipping any that are unset.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	lookups := []struct {
		key string
		get func(context.Context) (string, bool)
	}{
		{FieldJobID, services.JobIDFromContext},
		{FieldOperation, services.OperationFromContext},
		{FieldPreset, services.PresetFromContext},
	}
	var fields []slog.Attr
	for _, l := range lookups {
		if v, ok := l.get(ctx); ok {
			fields = append(fields, slog.String(l.key, v))
		}
	}
	return fields
}

// WithContext returns logger tagged with ContextFields(ctx). A nil logger
// yields a no-op logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	var args []any
	for _, f := range ContextFields(ctx) {
		args = append(args, f)
	}
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
