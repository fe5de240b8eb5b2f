//go:build !onnx
// +build !onnx

package analyzer

import (
	"go.uber.org/zap"
)

// Stub implementation used when the 'onnx' build tag is not set.
func NewNERBackend(logger *zap.Logger, cfg *NERConfig) NERBackend {
	return nil
}
