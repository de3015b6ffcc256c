package llm

// JSON Schemas for the structured results, in the shape the gateway expects
// under tools[].function.parameters.

var impactEnum = []string{"high", "medium", "low"}

var demandPredictionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"expectedFootfall": map[string]any{"type": "integer", "minimum": 0},
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":             map[string]any{"type": "string"},
					"recommendedQty":   map[string]any{"type": "number", "minimum": 0},
					"predictedWastage": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
				},
				"required": []string{"name", "recommendedQty", "predictedWastage"},
			},
		},
		"overallWastageRate": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		"confidence":         map[string]any{"type": "string", "enum": impactEnum},
		"insights":           map[string]any{"type": "string"},
	},
	"required": []string{"expectedFootfall", "items", "overallWastageRate", "confidence", "insights"},
}

var wastageAnalysisSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"keyPatterns": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"recommendations": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
					"impact":      map[string]any{"type": "string", "enum": impactEnum},
				},
				"required": []string{"title", "description", "impact"},
			},
		},
		"riskItems": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"item":   map[string]any{"type": "string"},
					"reason": map[string]any{"type": "string"},
				},
				"required": []string{"item", "reason"},
			},
		},
		"summary": map[string]any{"type": "string"},
	},
	"required": []string{"keyPatterns", "recommendations", "riskItems", "summary"},
}

// wrapSchema nests a result schema under its single required field.
func wrapSchema(field string, schema map[string]any) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			field: schema,
		},
		"required": []string{field},
	}
}
