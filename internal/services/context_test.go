package services_test

import (
	"context"
	"testing"

	"vidtools/internal/services"
)

func TestContextHelpersRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := services.JobIDFromContext(ctx); ok {
		t.Fatal("expected no job id on empty context")
	}
	ctx = services.WithJobID(ctx, "abc")
	ctx = services.WithOperation(ctx, "resize")
	ctx = services.WithPreset(ctx, "resize_half")

	if id, ok := services.JobIDFromContext(ctx); !ok || id != "abc" {
		t.Fatalf("job id = %q, %v", id, ok)
	}
	if op, ok := services.OperationFromContext(ctx); !ok || op != "resize" {
		t.Fatalf("operation = %q, %v", op, ok)
	}
	if name, ok := services.PresetFromContext(ctx); !ok || name != "resize_half" {
		t.Fatalf("preset = %q, %v", name, ok)
	}
}

func TestContextHelpersIgnoreEmptyValues(t *testing.T) {
	ctx := services.WithOperation(context.Background(), "")
	if _, ok := services.OperationFromContext(ctx); ok {
		t.Fatal("expected empty operation to be ignored")
	}
}
