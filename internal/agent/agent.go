// Package agent defines the boundary to the external Knowledge Agent: the
// component that turns a research prompt into a free-text answer using its
// own documentation tools. The pipeline treats it as opaque.
package agent

import "context"

// ToolCall is one entry of the agent's tool-usage log.
type ToolCall struct {
	Tool      string `json:"tool"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Response is the agent's answer envelope.
type Response struct {
	Answer    string     `json:"answer"`
	ToolUsage []ToolCall `json:"toolUsage"`
}

// Agent executes a research prompt. Implementations may block for an
// externally bounded duration; cancellation flows through ctx.
type Agent interface {
	Execute(ctx context.Context, prompt string) (*Response, error)
}
