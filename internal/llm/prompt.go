package llm

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Prompt is the system/user message pair sent to the gateway.
type Prompt struct {
	System string
	User   string
}

const demandSystemPrompt = `You are a food demand prediction AI for a large institutional mess. Analyze patterns and predict:
1. Expected footfall for the meal (IMPORTANT: Base footfall ranges are 4000-6000 people for weekdays, 3000-4500 for weekends)
2. Optimal quantity to prepare for each menu item (in kg) - Calculate as footfall × per-person consumption
3. Predicted wastage percentage
4. Confidence level (high/medium/low)

Base your predictions on these patterns:
- Weekdays: 4500-6000 footfall
- Weekends: 3000-4500 footfall (25-35% less than weekdays)
- Breakfast: 4000-5000 people, wastage 18-20%
- Lunch: 5000-6000 people, wastage 21-23%
- Dinner: 4500-5500 people, wastage 21-23%
- Hi-Tea: 3500-4000 people, wastage 28%

Per-person consumption guidelines:
- Rice/Main dish: 0.15-0.20 kg per person
- Dal/Curry: 0.12-0.15 kg per person
- Chapati: 0.08-0.10 kg per person (3-4 pieces)
- Vegetables: 0.10-0.12 kg per person
- Accompaniments (Chutney, Pickle): 0.02-0.03 kg per person

Calculate quantities as: (footfall × per-person consumption) + (wastage buffer)
Return realistic large-scale predictions.`

const wastageSystemPrompt = `You are a food wastage analyst AI. Analyze mess data and provide:
1. Key wastage patterns and trends
2. Top recommendations to reduce wastage
3. Optimal preparation quantities
4. Risk items that consistently have high wastage
5. Best practices based on the data

Be specific and actionable in your recommendations.`

// BuildDemandPrompt is pure: equal requests give byte-identical prompts.
func BuildDemandPrompt(req DemandPredictionRequest) Prompt {
	var b strings.Builder
	b.WriteString("Predict demand for:\n")
	b.WriteString("- Day: " + req.DayOfWeek + "\n")
	b.WriteString("- Meal Type: " + req.MealType + "\n")
	b.WriteString("- Menu Items: " + strings.Join(req.MenuItems, ", ") + "\n")
	b.WriteString("\nProvide realistic predictions based on typical mess patterns.")

	return Prompt{System: demandSystemPrompt, User: b.String()}
}

// BuildWastagePrompt embeds historicalData indented by two spaces, keeping
// its key order. Input that cannot be indented is embedded as-is.
func BuildWastagePrompt(req WastageAnalysisRequest) Prompt {
	var data bytes.Buffer
	if err := json.Indent(&data, bytes.TrimSpace(req.HistoricalData), "", "  "); err != nil {
		data.Reset()
		data.Write(req.HistoricalData)
	}

	var b strings.Builder
	b.WriteString("Analyze this mess data summary:\n")
	b.Write(data.Bytes())
	b.WriteString("\n\nProvide detailed insights and actionable recommendations to reduce food wastage.")

	return Prompt{System: wastageSystemPrompt, User: b.String()}
}
