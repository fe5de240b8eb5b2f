package pii

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewAnalysisError("detection backend unavailable", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the chained cause")
	}
	if got := err.Error(); got != "detection backend unavailable: connection refused" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestIsKind(t *testing.T) {
	analysis := NewAnalysisError("scan failed", context.Canceled)
	processing := NewProcessingError("text processing failed", analysis)

	t.Run("outer kind", func(t *testing.T) {
		if !IsKind(processing, KindProcessing) {
			t.Error("expected KindProcessing")
		}
	})

	t.Run("nested kind", func(t *testing.T) {
		if !IsKind(processing, KindAnalysis) {
			t.Error("expected nested KindAnalysis to be visible")
		}
	})

	t.Run("cause survives double wrap", func(t *testing.T) {
		if !errors.Is(processing, context.Canceled) {
			t.Error("original cause lost in chain")
		}
	})

	t.Run("through fmt wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("handler: %w", processing)
		if !IsKind(wrapped, KindProcessing) {
			t.Error("expected kind through fmt.Errorf wrap")
		}
	})

	t.Run("foreign error", func(t *testing.T) {
		if IsKind(errors.New("plain"), KindProcessing) {
			t.Error("plain error should have no kind")
		}
		if IsKind(nil, KindProcessing) {
			t.Error("nil error should have no kind")
		}
	})
}
