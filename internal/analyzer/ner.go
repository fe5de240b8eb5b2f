package analyzer

import (
	"context"

	"github.com/veilware/veil/internal/pii"
)

// NERBackend runs a token-classification model over text to find entities
// the pattern recognizers cannot anchor, such as free-form person and
// place names. Implementations are provided in build-tagged files.
type NERBackend interface {
	// Recognize returns model-detected entity spans for text.
	Recognize(ctx context.Context, text string, lang pii.Language) ([]pii.EntityMatch, error)

	// IsReady reports whether the model is loaded and usable.
	IsReady() bool

	// Close releases model resources.
	Close() error
}
