package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

var MealTypes = []string{"Breakfast", "Lunch", "Hi-Tea", "Dinner"}

// DemandPredictionRequest is the body of POST /predict-demand.
type DemandPredictionRequest struct {
	MealType  string   `json:"mealType" binding:"required,oneof=Breakfast Lunch Hi-Tea Dinner"`
	DayOfWeek string   `json:"dayOfWeek" binding:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	MenuItems []string `json:"menuItems" binding:"required,min=1,dive,required"`
}

type PredictedItem struct {
	Name             string  `json:"name" validate:"required"`
	RecommendedQty   float64 `json:"recommendedQty" validate:"gte=0"`
	PredictedWastage float64 `json:"predictedWastage" validate:"gte=0,lte=100"`
}

// Count is a whole number that also accepts integral floats such as 5200.0.
type Count int

const maxCount = 1 << 31

func (c *Count) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) || math.Abs(f) >= maxCount {
		return fmt.Errorf("%v is not a whole count", f)
	}
	*c = Count(f)
	return nil
}

type DemandPrediction struct {
	ExpectedFootfall   Count           `json:"expectedFootfall" validate:"gte=0"`
	Items              []PredictedItem `json:"items" validate:"dive"`
	OverallWastageRate float64         `json:"overallWastageRate" validate:"gte=0,lte=100"`
	Confidence         string          `json:"confidence" validate:"oneof=high medium low"`
	Insights           string          `json:"insights"`
}

// WastageAnalysisRequest is the body of POST /analyze-wastage. HistoricalData
// is kept as raw JSON so it reaches the prompt with its keys in caller order.
type WastageAnalysisRequest struct {
	HistoricalData json.RawMessage `json:"historicalData"`
}

func (r WastageAnalysisRequest) Validate() error {
	trimmed := bytes.TrimSpace(r.HistoricalData)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: historicalData must be an object", ErrValidation)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: historicalData is empty", ErrValidation)
	}
	return nil
}

// MealStats is one entry of HistoricalData.MealTypes.
type MealStats struct {
	Wastage  float64 `json:"wastage"`
	Footfall int     `json:"footfall"`
}

// HistoricalData is the aggregate summary the dashboard sends for analysis.
type HistoricalData struct {
	AvgWastageRate float64              `json:"avgWastageRate"`
	TotalPrepared  float64              `json:"totalPrepared"`
	TotalWasted    float64              `json:"totalWasted"`
	MealTypes      map[string]MealStats `json:"mealTypes"`
	TopWastedItems []string             `json:"topWastedItems"`
}

// Request wraps the summary into a WastageAnalysisRequest.
func (h HistoricalData) Request() (WastageAnalysisRequest, error) {
	raw, err := json.Marshal(h)
	if err != nil {
		return WastageAnalysisRequest{}, err
	}
	return WastageAnalysisRequest{HistoricalData: raw}, nil
}

type Recommendation struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Impact      string `json:"impact" validate:"oneof=high medium low"`
}

type RiskItem struct {
	Item   string `json:"item" validate:"required"`
	Reason string `json:"reason"`
}

type WastageAnalysis struct {
	KeyPatterns     []string         `json:"keyPatterns"`
	Recommendations []Recommendation `json:"recommendations" validate:"dive"`
	RiskItems       []RiskItem       `json:"riskItems" validate:"dive"`
	Summary         string           `json:"summary"`
}
