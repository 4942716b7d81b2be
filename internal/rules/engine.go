package rules

import (
	"reflect"

	"github.com/rs/zerolog"
)

// Engine evaluates the validation rule catalog against parsed documents.
// It is stateless; one instance serves all request families.
type Engine struct {
	logger zerolog.Logger
}

// NewEngine constructs a rule engine.
func NewEngine(logger zerolog.Logger) *Engine {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &Engine{logger: logger.With().Str("component", "rules").Logger()}
}
