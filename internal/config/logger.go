package config

import "go.uber.org/zap"

// NewLogger builds the process logger. Development config keeps the
// human-readable console output.
func NewLogger() (*zap.Logger, error) {
	return zap.NewDevelopment()
}
