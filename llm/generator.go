package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Generator is the abstraction over the external text-generation API.
// Callers hand it a system prompt plus a user prompt and get back a raw JSON
// object; what that object means is the caller's business.
type Generator interface {
	GenerateJSON(ctx context.Context, system, prompt string, temperature float32) (json.RawMessage, error)
}

// ErrUnavailable wraps any transport, auth, rate-limit or timeout failure of
// the upstream service. Callers decide whether that degrades or hard-fails.
var ErrUnavailable = errors.New("generation service unavailable")
