package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"research-assistant/internal/common/errors"
	"research-assistant/internal/common/logger"
)

// responseSchema describes the envelope the agent endpoint must return.
// Anything that does not satisfy it is rejected as AGENT_RESPONSE_INVALID.
const responseSchema = `{
	"type": "object",
	"required": ["answer"],
	"properties": {
		"answer": {"type": "string", "minLength": 1},
		"toolUsage": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["tool"],
				"properties": {
					"tool": {"type": "string"},
					"timestamp": {"type": "string"}
				}
			}
		}
	}
}`

// Config holds the HTTP agent client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// HTTPAgent calls a remote Knowledge Agent endpoint over HTTP.
type HTTPAgent struct {
	config *Config
	client *http.Client
	schema *gojsonschema.Schema
	logger logger.Logger
}

// NewHTTPAgent builds the client. The response schema is compiled once here;
// a broken schema constant is a programming error, hence the panic.
func NewHTTPAgent(config *Config, log logger.Logger) *HTTPAgent {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		panic(fmt.Sprintf("agent response schema: %v", err))
	}

	return &HTTPAgent{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		schema: schema,
		logger: log.With(map[string]interface{}{
			"component": "knowledge-agent",
		}),
	}
}

// Execute posts the prompt to the agent endpoint and decodes the answer
// envelope. Transient transport failures and non-OK statuses are retried
// with exponential backoff up to MaxRetries.
func (a *HTTPAgent) Execute(ctx context.Context, prompt string) (*Response, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"prompt": prompt,
	})

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, errors.NewAgentTimeoutError(ctx.Err().Error())
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", a.config.BaseURL+"/api/agent/research", bytes.NewBuffer(body))
		if err != nil {
			return nil, errors.NewAgentExecutionFailedError(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, lastErr = a.client.Do(req)

		if ctx.Err() != nil {
			return nil, errors.NewAgentTimeoutError(ctx.Err().Error())
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		return nil, errors.NewAgentExecutionFailedError(lastErr)
	}
	if resp == nil {
		return nil, errors.NewAgentExecutionFailedError(fmt.Errorf("no successful response after retries"))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewAgentExecutionFailedError(err)
	}

	if err := a.validateEnvelope(raw); err != nil {
		return nil, err
	}

	var envelope Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.NewAgentResponseInvalidError(fmt.Sprintf("decode error: %v", err))
	}

	a.logger.Info("agent responded", map[string]interface{}{
		"answerLength": len(envelope.Answer),
		"toolCalls":    len(envelope.ToolUsage),
	})

	return &envelope, nil
}

func (a *HTTPAgent) validateEnvelope(raw []byte) error {
	result, err := a.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return errors.NewAgentResponseInvalidError(err.Error())
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errors.NewAgentResponseInvalidError(fmt.Sprintf("envelope validation failed: %v", errs))
	}

	return nil
}
