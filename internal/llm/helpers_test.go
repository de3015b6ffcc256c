package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ishaan583/foodshare/internal/config"

	"go.uber.org/zap"
)

// stubGateway answers every request with a fixed status and body and
// records what it received.
type stubGateway struct {
	*httptest.Server
	hits     atomic.Int32
	lastBody []byte
	lastAuth string
	lastPath string
}

func newStubGateway(t *testing.T, status int, body string) *stubGateway {
	t.Helper()

	stub := &stubGateway{}
	stub.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.hits.Add(1)
		stub.lastBody, _ = io.ReadAll(r.Body)
		stub.lastAuth = r.Header.Get("Authorization")
		stub.lastPath = r.URL.Path

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(stub.Close)
	return stub
}

func (s *stubGateway) client(apiKey string) *GatewayClient {
	return NewGatewayClient(config.AIConfig{
		GatewayURL: s.URL + "/v1",
		APIKey:     apiKey,
		Model:      "test-model",
		Timeout:    5 * time.Second,
	}, zap.NewNop())
}

func toolCallResponse(t *testing.T, name, arguments string) string {
	t.Helper()

	resp := map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{
					"role": "assistant",
					"tool_calls": []any{
						map[string]any{
							"id":   "call_1",
							"type": "function",
							"function": map[string]any{
								"name":      name,
								"arguments": arguments,
							},
						},
					},
				},
			},
		},
	}
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal stub response: %v", err)
	}
	return string(b)
}

const plainTextResponse = `{"choices":[{"message":{"role":"assistant","content":"I think lunch will be busy."}}]}`

// fakeClient returns canned arguments without any network.
type fakeClient struct {
	args  string
	err   error
	calls []Call
}

func (f *fakeClient) Invoke(_ context.Context, call Call) (json.RawMessage, error) {
	f.calls = append(f.calls, call)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.args), nil
}
