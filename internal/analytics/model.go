package analytics

import "time"

const servedOnLayout = "2006-01-02"

type MealItem struct {
	Name       string  `json:"name"`
	PreparedKg float64 `json:"prepared_kg"`
	WastedKg   float64 `json:"wasted_kg"`
}

// MealRecord is one meal sitting of the mess.
type MealRecord struct {
	ID        string     `json:"id"`
	MealType  string     `json:"meal_type"`
	ServedOn  time.Time  `json:"served_on"`
	Footfall  int        `json:"footfall"`
	Items     []MealItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

type ItemInput struct {
	Name       string  `json:"name" binding:"required"`
	PreparedKg float64 `json:"prepared_kg" binding:"gte=0"`
	WastedKg   float64 `json:"wasted_kg" binding:"gte=0"`
}

type RecordInput struct {
	MealType string      `json:"meal_type" binding:"required,oneof=Breakfast Lunch Hi-Tea Dinner"`
	ServedOn string      `json:"served_on" binding:"required"`
	Footfall int         `json:"footfall" binding:"gte=0"`
	Items    []ItemInput `json:"items" binding:"required,min=1,dive"`
}

type MealTypeStats struct {
	Wastage  float64 `json:"wastage"`
	Footfall int     `json:"footfall"`
}

type WastedItem struct {
	Item  string  `json:"item"`
	Kg    float64 `json:"kg"`
	Share float64 `json:"share"`
}

type Summary struct {
	Days           int                      `json:"days"`
	Sittings       int                      `json:"sittings"`
	AvgWastageRate float64                  `json:"avg_wastage_rate"`
	TotalPrepared  float64                  `json:"total_prepared_kg"`
	TotalWasted    float64                  `json:"total_wasted_kg"`
	TotalFootfall  int                      `json:"total_footfall"`
	MealTypes      map[string]MealTypeStats `json:"meal_types"`
	TopWastedItems []WastedItem             `json:"top_wasted_items"`
}

type DayTrend struct {
	Day     string  `json:"day"`
	Wastage float64 `json:"wastage"`
	Served  float64 `json:"served"`
}
