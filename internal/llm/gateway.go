package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ishaan583/foodshare/internal/config"

	"go.uber.org/zap"
)

// GatewayClient talks to an OpenAI-compatible chat-completions endpoint.
// It holds no per-request state and is safe for concurrent use.
type GatewayClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	log     *zap.Logger
}

func NewGatewayClient(cfg config.AIConfig, log *zap.Logger) *GatewayClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GatewayClient{
		baseURL: cfg.GatewayURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type functionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

type toolDefinition struct {
	Type     string             `json:"type"`
	Function functionDefinition `json:"function"`
}

type toolChoiceFunction struct {
	Name string `json:"name"`
}

type toolChoice struct {
	Type     string             `json:"type"`
	Function toolChoiceFunction `json:"function"`
}

type chatRequest struct {
	Model      string           `json:"model"`
	Messages   []chatMessage    `json:"messages"`
	Tools      []toolDefinition `json:"tools"`
	ToolChoice toolChoice       `json:"tool_choice"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

func newChatRequest(model string, call Call) chatRequest {
	return chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: call.Prompt.System},
			{Role: "user", Content: call.Prompt.User},
		},
		Tools: []toolDefinition{
			{
				Type: "function",
				Function: functionDefinition{
					Name:        call.Tool.Name,
					Description: call.Tool.Description,
					Parameters:  call.Tool.Parameters,
				},
			},
		},
		ToolChoice: toolChoice{
			Type:     "function",
			Function: toolChoiceFunction{Name: call.Tool.Name},
		},
	}
}

// Invoke issues exactly one request. There are no retries; a 429 or 402 is
// reported to the caller as ErrRateLimited or ErrQuotaExceeded.
func (g *GatewayClient) Invoke(ctx context.Context, call Call) (json.RawMessage, error) {
	if g.apiKey == "" {
		return nil, ErrConfiguration
	}

	body, err := json.Marshal(newChatRequest(g.model, call))
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.baseURL+"/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Error("AI gateway unreachable",
			zap.String("tool", call.Tool.Name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstreamFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		g.log.Warn("AI gateway rate limited", zap.String("tool", call.Tool.Name))
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		g.log.Warn("AI gateway quota exhausted", zap.String("tool", call.Tool.Name))
		return nil, ErrQuotaExceeded
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		g.log.Error("AI gateway error",
			zap.String("tool", call.Tool.Name),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw),
		)
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamFailure, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		g.log.Error("AI gateway returned undecodable body",
			zap.String("tool", call.Tool.Name),
			zap.ByteString("body", raw),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstreamFailure, err)
	}

	if len(parsed.Choices) == 0 || len(parsed.Choices[0].Message.ToolCalls) == 0 {
		return nil, ErrNoStructuredResponse
	}

	return json.RawMessage(parsed.Choices[0].Message.ToolCalls[0].Function.Arguments), nil
}
