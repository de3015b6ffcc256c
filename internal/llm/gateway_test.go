package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demandCall() Call {
	task := PredictDemandTask
	req := DemandPredictionRequest{MealType: "Lunch", DayOfWeek: "Monday", MenuItems: []string{"Dal"}}
	return Call{Prompt: task.Prompt(req), Tool: task.Tool()}
}

func TestGatewayClient_RequestShape(t *testing.T) {
	stub := newStubGateway(t, http.StatusOK, toolCallResponse(t, "predict_demand", `{"predictions":null}`))

	_, err := stub.client("secret").Invoke(context.Background(), demandCall())
	require.NoError(t, err)

	assert.Equal(t, "/v1/chat/completions", stub.lastPath)
	assert.Equal(t, "Bearer secret", stub.lastAuth)

	var sent chatRequest
	require.NoError(t, json.Unmarshal(stub.lastBody, &sent))
	assert.Equal(t, "test-model", sent.Model)
	require.Len(t, sent.Messages, 2)
	assert.Equal(t, "system", sent.Messages[0].Role)
	assert.Equal(t, "user", sent.Messages[1].Role)
	require.Len(t, sent.Tools, 1)
	assert.Equal(t, "function", sent.Tools[0].Type)
	assert.Equal(t, "predict_demand", sent.Tools[0].Function.Name)
	assert.Equal(t, "predict_demand", sent.ToolChoice.Function.Name)

	props := sent.Tools[0].Function.Parameters["properties"].(map[string]any)
	assert.Contains(t, props, "predictions")
	assert.Equal(t, []any{"predictions"}, sent.Tools[0].Function.Parameters["required"])
}

func TestGatewayClient_ReturnsFirstToolCallArguments(t *testing.T) {
	args := `{"predictions":{"expectedFootfall":10}}`
	stub := newStubGateway(t, http.StatusOK, toolCallResponse(t, "predict_demand", args))

	got, err := stub.client("secret").Invoke(context.Background(), demandCall())

	require.NoError(t, err)
	assert.JSONEq(t, args, string(got))
}

func TestGatewayClient_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"quota", http.StatusPaymentRequired, ErrQuotaExceeded},
		{"server error", http.StatusInternalServerError, ErrUpstreamFailure},
		{"bad request", http.StatusBadRequest, ErrUpstreamFailure},
		{"unauthorized", http.StatusUnauthorized, ErrUpstreamFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := newStubGateway(t, tc.status, `{"error":"nope"}`)

			_, err := stub.client("secret").Invoke(context.Background(), demandCall())

			assert.ErrorIs(t, err, tc.want)
			assert.EqualValues(t, 1, stub.hits.Load(), "no retries")
		})
	}
}

func TestGatewayClient_NoToolCall(t *testing.T) {
	stub := newStubGateway(t, http.StatusOK, plainTextResponse)

	_, err := stub.client("secret").Invoke(context.Background(), demandCall())

	assert.ErrorIs(t, err, ErrNoStructuredResponse)
}

func TestGatewayClient_NoChoices(t *testing.T) {
	stub := newStubGateway(t, http.StatusOK, `{"choices":[]}`)

	_, err := stub.client("secret").Invoke(context.Background(), demandCall())

	assert.ErrorIs(t, err, ErrNoStructuredResponse)
}

func TestGatewayClient_UndecodableBody(t *testing.T) {
	stub := newStubGateway(t, http.StatusOK, `<html>oops</html>`)

	_, err := stub.client("secret").Invoke(context.Background(), demandCall())

	assert.ErrorIs(t, err, ErrUpstreamFailure)
}

func TestGatewayClient_MissingKeySkipsNetwork(t *testing.T) {
	stub := newStubGateway(t, http.StatusOK, plainTextResponse)

	_, err := stub.client("").Invoke(context.Background(), demandCall())

	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Zero(t, stub.hits.Load())
}

func TestGatewayClient_CancelledContext(t *testing.T) {
	stub := newStubGateway(t, http.StatusOK, plainTextResponse)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stub.client("secret").Invoke(ctx, demandCall())

	assert.ErrorIs(t, err, ErrUpstreamFailure)
}
