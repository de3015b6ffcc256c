package llm

import (
	"context"
	"encoding/json"
)

// Tool is a single callable function offered to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Call is one structured completion: a prompt pair plus the tool the model
// is forced to invoke.
type Call struct {
	Prompt Prompt
	Tool   Tool
}

// Client returns the raw arguments of the forced tool call, or
// ErrNoStructuredResponse when the model answered without calling it.
type Client interface {
	Invoke(ctx context.Context, call Call) (json.RawMessage, error)
}
