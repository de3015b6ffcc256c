package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Ishaan583/foodshare/internal/analytics"
	"github.com/Ishaan583/foodshare/internal/auth"
	"github.com/Ishaan583/foodshare/internal/donation"
	"github.com/Ishaan583/foodshare/internal/llm"

	"github.com/jaswdr/faker"
)

// menus lists typical items per meal type.
var menus = map[string][]string{
	"Breakfast": {"Poha", "Idli", "Sambar", "Bread Toast", "Boiled Eggs", "Upma"},
	"Lunch":     {"Steamed Rice", "Dal Fry", "Chapati", "Mixed Veg Curry", "Curd", "Salad"},
	"Hi-Tea":    {"Samosa", "Tea", "Biscuits", "Pakora", "Sandwich"},
	"Dinner":    {"Chapati", "Fried Rice", "Paneer Curry", "Dal Tadka", "Kheer"},
}

// footfall ranges per meal type on weekdays; weekends run lower.
var footfall = map[string][2]int{
	"Breakfast": {4000, 5000},
	"Lunch":     {5000, 6000},
	"Hi-Tea":    {3500, 4000},
	"Dinner":    {4500, 5500},
}

// wastage percentage ranges per meal type.
var wastage = map[string][2]int{
	"Breakfast": {16, 21},
	"Lunch":     {19, 24},
	"Hi-Tea":    {24, 31},
	"Dinner":    {19, 24},
}

// Generator produces plausible demo data.
type Generator struct {
	fake faker.Faker
}

func NewGenerator(seed int64) *Generator {
	return &Generator{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

const DemoPassword = "Password@123"

func (g *Generator) User(role string) auth.RegisterInput {
	name := g.fake.Person().Name()
	local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	return auth.RegisterInput{
		Name:         name,
		Email:        fmt.Sprintf("%s.%d@%s", local, g.fake.IntBetween(100, 999), "foodshare.test"),
		Password:     DemoPassword,
		Role:         role,
		Organization: g.fake.Company().Name(),
	}
}

func (g *Generator) Donation() donation.CreateInput {
	return donation.CreateInput{
		FoodType:    g.fake.RandomStringElement(donation.FoodTypes),
		QuantityKg:  g.fake.Float64(1, 2, 60),
		ExpiryHours: g.fake.IntBetween(2, 24),
		Location:    g.fake.Address().StreetAddress(),
		Description: g.fake.Lorem().Sentence(6),
	}
}

// MealRecords returns one record per meal type for each of the days ending on end.
func (g *Generator) MealRecords(days int, end time.Time) []analytics.RecordInput {
	records := make([]analytics.RecordInput, 0, days*len(llm.MealTypes))
	for i := days - 1; i >= 0; i-- {
		served := end.AddDate(0, 0, -i)
		weekend := served.Weekday() == time.Saturday || served.Weekday() == time.Sunday

		for _, meal := range llm.MealTypes {
			records = append(records, g.mealRecord(meal, served, weekend))
		}
	}
	return records
}

func (g *Generator) mealRecord(meal string, served time.Time, weekend bool) analytics.RecordInput {
	lo, hi := footfall[meal][0], footfall[meal][1]
	if weekend {
		lo, hi = lo*3/4, hi*3/4
	}
	people := g.fake.IntBetween(lo, hi)

	var items []analytics.ItemInput
	for _, name := range menus[meal] {
		if g.fake.IntBetween(0, 9) < 2 {
			continue
		}
		prepared := float64(people) * g.fake.Float64(3, 40, 120) / 1000
		rate := g.fake.Float64(2, wastage[meal][0], wastage[meal][1]) / 100
		items = append(items, analytics.ItemInput{
			Name:       name,
			PreparedKg: round2(prepared),
			WastedKg:   round2(prepared * rate),
		})
	}
	if len(items) == 0 {
		items = append(items, analytics.ItemInput{Name: menus[meal][0], PreparedKg: 100, WastedKg: 20})
	}

	return analytics.RecordInput{
		MealType: meal,
		ServedOn: served.Format("2006-01-02"),
		Footfall: people,
		Items:    items,
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
