package analytics

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Ishaan583/foodshare/internal/llm"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultWindowDays = 30
	MaxWindowDays     = 365
)

var (
	ErrInvalidRecord = errors.New("invalid meal record")
	ErrNoData        = errors.New("no meal records in the selected window")
)

// Analyzer runs the wastage-analysis inference.
type Analyzer interface {
	AnalyzeWastage(ctx context.Context, req llm.WastageAnalysisRequest) (*llm.WastageAnalysis, error)
}

type Service struct {
	repo     Repository
	analyzer Analyzer
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, analyzer Analyzer, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		analyzer: analyzer,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func clampDays(days int) int {
	switch {
	case days <= 0:
		return DefaultWindowDays
	case days > MaxWindowDays:
		return MaxWindowDays
	default:
		return days
	}
}

func (s *Service) Record(ctx context.Context, in RecordInput) (*MealRecord, error) {
	if !slices.Contains(llm.MealTypes, in.MealType) {
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrInvalidRecord, in.MealType)
	}
	servedOn, err := time.Parse(servedOnLayout, in.ServedOn)
	if err != nil {
		return nil, fmt.Errorf("%w: served_on must be YYYY-MM-DD", ErrInvalidRecord)
	}
	if in.Footfall < 0 || len(in.Items) == 0 {
		return nil, ErrInvalidRecord
	}

	items := make([]MealItem, 0, len(in.Items))
	for _, it := range in.Items {
		name := strings.TrimSpace(it.Name)
		switch {
		case name == "":
			return nil, fmt.Errorf("%w: item name required", ErrInvalidRecord)
		case it.PreparedKg < 0 || it.WastedKg < 0:
			return nil, fmt.Errorf("%w: %s has a negative quantity", ErrInvalidRecord, name)
		case it.WastedKg > it.PreparedKg:
			return nil, fmt.Errorf("%w: %s wasted more than prepared", ErrInvalidRecord, name)
		}
		items = append(items, MealItem{Name: name, PreparedKg: it.PreparedKg, WastedKg: it.WastedKg})
	}

	rec := &MealRecord{
		ID:        uuid.New().String(),
		MealType:  in.MealType,
		ServedOn:  servedOn,
		Footfall:  in.Footfall,
		Items:     items,
		CreatedAt: s.now(),
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) window(ctx context.Context, days int) ([]*MealRecord, int, error) {
	days = clampDays(days)

	today := s.now().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	records, err := s.repo.ListSince(ctx, since)
	if err != nil {
		return nil, 0, err
	}
	return records, days, nil
}

func (s *Service) Summary(ctx context.Context, days int) (*Summary, error) {
	records, days, err := s.window(ctx, days)
	if err != nil {
		return nil, err
	}
	summary := Summarize(records, days)
	return &summary, nil
}

func (s *Service) Trends(ctx context.Context, days int) ([]DayTrend, error) {
	records, _, err := s.window(ctx, days)
	if err != nil {
		return nil, err
	}
	return WeeklyTrends(records), nil
}

// HistoricalData shapes a summary into the payload the wastage analysis expects.
func HistoricalData(summary Summary) llm.HistoricalData {
	meals := make(map[string]llm.MealStats, len(summary.MealTypes))
	for meal, st := range summary.MealTypes {
		meals[meal] = llm.MealStats{Wastage: st.Wastage, Footfall: st.Footfall}
	}

	top := make([]string, 0, len(summary.TopWastedItems))
	for _, item := range summary.TopWastedItems {
		kg := decimal.NewFromFloat(item.Kg).Round(0)
		top = append(top, fmt.Sprintf("%s (%s kg)", item.Item, kg.String()))
	}

	return llm.HistoricalData{
		AvgWastageRate: summary.AvgWastageRate,
		TotalPrepared:  summary.TotalPrepared,
		TotalWasted:    summary.TotalWasted,
		MealTypes:      meals,
		TopWastedItems: top,
	}
}

// Analyze summarizes the window and asks the model for insights. A nil
// analysis with a nil error means the model returned nothing usable.
func (s *Service) Analyze(ctx context.Context, days int) (*llm.WastageAnalysis, llm.HistoricalData, error) {
	summary, err := s.Summary(ctx, days)
	if err != nil {
		return nil, llm.HistoricalData{}, err
	}

	data := HistoricalData(*summary)
	if summary.Sittings == 0 {
		return nil, data, ErrNoData
	}

	req, err := data.Request()
	if err != nil {
		return nil, data, err
	}

	analysis, err := s.analyzer.AnalyzeWastage(ctx, req)
	if err != nil {
		return nil, data, err
	}

	s.log.Info("wastage analysis completed",
		zap.Int("days", summary.Days),
		zap.Int("sittings", summary.Sittings),
		zap.Bool("structured", analysis != nil),
	)
	return analysis, data, nil
}
