package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const topItemLimit = 5

var (
	hundred  = decimal.NewFromInt(100)
	weekdays = []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
)

type totals struct {
	prepared decimal.Decimal
	wasted   decimal.Decimal
	footfall int
	sittings int
}

func (t *totals) add(rec *MealRecord) {
	for _, item := range rec.Items {
		t.prepared = t.prepared.Add(decimal.NewFromFloat(item.PreparedKg))
		t.wasted = t.wasted.Add(decimal.NewFromFloat(item.WastedKg))
	}
	t.footfall += rec.Footfall
	t.sittings++
}

// rate is wasted/prepared as a percentage with one decimal; zero when nothing was prepared.
func (t totals) rate() decimal.Decimal {
	if t.prepared.IsZero() {
		return decimal.Zero
	}
	return t.wasted.Div(t.prepared).Mul(hundred).Round(1)
}

// Summarize folds meal records into the dashboard summary.
func Summarize(records []*MealRecord, days int) Summary {
	var all totals
	byMeal := make(map[string]*totals)
	byItem := make(map[string]decimal.Decimal)

	for _, rec := range records {
		all.add(rec)

		mt, ok := byMeal[rec.MealType]
		if !ok {
			mt = &totals{}
			byMeal[rec.MealType] = mt
		}
		mt.add(rec)

		for _, item := range rec.Items {
			byItem[item.Name] = byItem[item.Name].Add(decimal.NewFromFloat(item.WastedKg))
		}
	}

	summary := Summary{
		Days:           days,
		Sittings:       all.sittings,
		AvgWastageRate: all.rate().InexactFloat64(),
		TotalPrepared:  all.prepared.Round(2).InexactFloat64(),
		TotalWasted:    all.wasted.Round(2).InexactFloat64(),
		TotalFootfall:  all.footfall,
		MealTypes:      make(map[string]MealTypeStats, len(byMeal)),
		TopWastedItems: topWasted(byItem, all.wasted),
	}

	for meal, t := range byMeal {
		footfall := decimal.NewFromInt(int64(t.footfall)).
			Div(decimal.NewFromInt(int64(t.sittings))).
			Round(0)
		summary.MealTypes[meal] = MealTypeStats{
			Wastage:  t.rate().InexactFloat64(),
			Footfall: int(footfall.IntPart()),
		}
	}

	return summary
}

func topWasted(byItem map[string]decimal.Decimal, totalWasted decimal.Decimal) []WastedItem {
	type entry struct {
		name string
		kg   decimal.Decimal
	}

	entries := make([]entry, 0, len(byItem))
	for name, kg := range byItem {
		if kg.IsPositive() {
			entries = append(entries, entry{name, kg})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].kg.Cmp(entries[j].kg); c != 0 {
			return c > 0
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > topItemLimit {
		entries = entries[:topItemLimit]
	}

	items := make([]WastedItem, 0, len(entries))
	for _, e := range entries {
		share := decimal.Zero
		if totalWasted.IsPositive() {
			share = e.kg.Div(totalWasted).Mul(hundred).Round(1)
		}
		items = append(items, WastedItem{
			Item:  e.name,
			Kg:    e.kg.Round(2).InexactFloat64(),
			Share: share.InexactFloat64(),
		})
	}
	return items
}

// WeeklyTrends reports wasted and served percentages per weekday, Monday first.
func WeeklyTrends(records []*MealRecord) []DayTrend {
	byDay := make(map[time.Weekday]*totals)
	for _, rec := range records {
		day := rec.ServedOn.Weekday()
		t, ok := byDay[day]
		if !ok {
			t = &totals{}
			byDay[day] = t
		}
		t.add(rec)
	}

	trends := make([]DayTrend, 0, len(weekdays))
	for _, day := range weekdays {
		trend := DayTrend{Day: day.String()[:3]}
		if t, ok := byDay[day]; ok && t.prepared.IsPositive() {
			wastage := t.rate()
			trend.Wastage = wastage.InexactFloat64()
			trend.Served = hundred.Sub(wastage).InexactFloat64()
		}
		trends = append(trends, trend)
	}
	return trends
}
