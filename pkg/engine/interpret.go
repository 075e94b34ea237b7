package engine

import (
	"context"
	"errors"

	"github.com/sorcerai/packfs/pkg/intent"
)

// Interpretation couples the parsed intent, the parser's confidence, and
// the dispatched result.
type Interpretation struct {
	Intent     intent.Intent
	Confidence float64
	Result     any
	Success    bool
	Message    string
}

// InterpretQuery parses a free-text query into a structured intent and
// executes it through the same paths as a direct call.
func (e *Engine) InterpretQuery(ctx context.Context, query string) (Interpretation, error) {
	if !e.cfg.EnableNaturalLanguage {
		return Interpretation{}, errors.New("natural-language queries are disabled")
	}
	in, confidence := intent.ParseQuery(query)
	ok, message, payload := e.runStep(ctx, in)
	return Interpretation{
		Intent:     in,
		Confidence: confidence,
		Result:     payload,
		Success:    ok,
		Message:    message,
	}, nil
}
