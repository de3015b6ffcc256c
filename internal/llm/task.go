package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Task describes one structured-inference endpoint: how to prompt, which
// schema the model must fill, and where the result sits in the tool arguments.
type Task[Req any, Res any] struct {
	Name           string
	Description    string
	ResultField    string
	FailureMessage string
	Schema         map[string]any
	Prompt         func(Req) Prompt
}

func (t Task[Req, Res]) Tool() Tool {
	return Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  wrapSchema(t.ResultField, t.Schema),
	}
}

var PredictDemandTask = Task[DemandPredictionRequest, DemandPrediction]{
	Name:           "predict_demand",
	Description:    "Predict food demand and wastage",
	ResultField:    "predictions",
	FailureMessage: "AI prediction failed",
	Schema:         demandPredictionSchema,
	Prompt:         BuildDemandPrompt,
}

var AnalyzeWastageTask = Task[WastageAnalysisRequest, WastageAnalysis]{
	Name:           "analyze_wastage",
	Description:    "Analyze food wastage patterns",
	ResultField:    "analysis",
	FailureMessage: "AI analysis failed",
	Schema:         wastageAnalysisSchema,
	Prompt:         BuildWastagePrompt,
}

var resultValidator = validator.New()

// Run performs one structured call. A nil result with a nil error means the
// model gave no usable structured answer.
func Run[Req any, Res any](
	ctx context.Context,
	client Client,
	log *zap.Logger,
	task Task[Req, Res],
	req Req,
) (*Res, error) {

	args, err := client.Invoke(ctx, Call{Prompt: task.Prompt(req), Tool: task.Tool()})
	if errors.Is(err, ErrNoStructuredResponse) {
		log.Info("model returned no tool call", zap.String("tool", task.Name))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	result, err := extract[Res](args, task.ResultField, task.Schema)
	if err != nil {
		log.Warn("discarding structured result",
			zap.String("tool", task.Name),
			zap.Error(err),
		)
		return nil, nil
	}
	return result, nil
}

// extract pulls args[field], checks it against the schema's required lists
// and the Res validation tags. A missing or null field yields (nil, nil).
func extract[Res any](args json.RawMessage, field string, schema map[string]any) (*Res, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(args, &fields); err != nil {
		return nil, fmt.Errorf("decode tool arguments: %w", err)
	}

	value, ok := fields[field]
	if !ok || isNull(value) {
		return nil, nil
	}
	if err := checkRequired(schema, value, field); err != nil {
		return nil, err
	}

	var result Res
	if err := json.Unmarshal(value, &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	if err := resultValidator.Struct(&result); err != nil {
		return nil, fmt.Errorf("validate %s: %w", field, err)
	}
	return &result, nil
}

// checkRequired walks value alongside its JSON schema and fails on the first
// required property that is absent or null, at any depth.
func checkRequired(schema map[string]any, value json.RawMessage, path string) error {
	switch schema["type"] {
	case "object":
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(value, &obj); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		required, _ := schema["required"].([]string)
		for _, key := range required {
			if v, ok := obj[key]; !ok || isNull(v) {
				return fmt.Errorf("%s.%s is required", path, key)
			}
		}

		props, _ := schema["properties"].(map[string]any)
		for _, key := range required {
			sub, ok := props[key].(map[string]any)
			if !ok {
				continue
			}
			if err := checkRequired(sub, obj[key], path+"."+key); err != nil {
				return err
			}
		}

	case "array":
		sub, ok := schema["items"].(map[string]any)
		if !ok {
			return nil
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(value, &elems); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for i, elem := range elems {
			if isNull(elem) {
				return fmt.Errorf("%s[%d] is null", path, i)
			}
			if err := checkRequired(sub, elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
