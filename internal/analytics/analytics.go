// Package analytics builds the monthly mood calendar and category
// breakdown from a bounded set of mood records. Build is pure: no
// I/O, identical input yields identical output.
package analytics

import (
	"fmt"
	"sort"
	"time"
)

// Record is the slice of a mood record that analytics needs.
type Record struct {
	MoodType  string
	Intensity int
	CreatedAt time.Time
}

// Cell is one calendar slot. Leading padding cells (before day 1) have
// every field nil; day cells without a record have a nil mood.
type Cell struct {
	Date       *int    `json:"date"`
	DateString *string `json:"dateString"`
	Mood       *string `json:"mood"`
	Color      *string `json:"color"`
	Intensity  *int    `json:"intensity"`
}

// Slice is one donut-chart segment.
type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Result is the aggregated analytics payload for one month.
type Result struct {
	Calendar   []Cell  `json:"calendar"`
	DonutChart []Slice `json:"donut_chart"`
	Suggestion string  `json:"suggestion"`
	Month      string  `json:"month"`
}

var colorByMood = map[string]string{
	"happy":   "#d4b5b0",
	"calm":    "#a8c3b4",
	"anxious": "#fcd34d",
	"sad":     "#93c5fd",
	"angry":   "#fca5a5",
}

var nameByMood = map[string]string{
	"happy":   "Joy",
	"calm":    "Calm",
	"anxious": "Worry",
	"sad":     "Blue",
	"angry":   "Heat",
}

var suggestionByMood = map[string]string{
	"happy":   "Your joy is beautiful. Share it with someone today.",
	"calm":    "You've found peace. Notice the quiet moments.",
	"anxious": "Breathe slowly. This feeling will pass.",
	"sad":     "Be gentle with yourself. Rest is healing.",
	"angry":   "Your feelings matter. Take a mindful pause.",
}

const fallbackSuggestion = "Take time to breathe. Your feelings are valid."

// moodOrder fixes the tie-break order for the dominant mood so the
// suggestion is deterministic when counts are equal.
var moodOrder = []string{"happy", "calm", "anxious", "sad", "angry"}

type dayMood struct {
	mood      string
	intensity int
	createdAt time.Time
}

// Build aggregates records into a calendar grid, a category breakdown
// and a suggestion for the given month. Records are expected to be
// pre-filtered to the month and non-deleted; anything outside the
// month is ignored.
func Build(records []Record, year int, month time.Month) Result {
	counts := map[string]int{}
	byDay := map[string]dayMood{}

	for _, rec := range records {
		counts[rec.MoodType]++

		created := rec.CreatedAt.UTC()
		if created.Year() != year || created.Month() != month {
			continue
		}
		key := created.Format("2006-01-02")
		// Keep the last-recorded mood of the day.
		if cur, ok := byDay[key]; !ok || rec.CreatedAt.After(cur.createdAt) {
			byDay[key] = dayMood{mood: rec.MoodType, intensity: rec.Intensity, createdAt: rec.CreatedAt}
		}
	}

	donut := make([]Slice, 0, len(counts))
	for mood, count := range counts {
		name, ok := nameByMood[mood]
		if !ok {
			name = mood
		}
		color, ok := colorByMood[mood]
		if !ok {
			color = "#e5e7eb"
		}
		donut = append(donut, Slice{Name: name, Value: count, Color: color})
	}
	sort.Slice(donut, func(i, j int) bool {
		if donut[i].Value != donut[j].Value {
			return donut[i].Value > donut[j].Value
		}
		return donut[i].Name < donut[j].Name
	})

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	totalDays := first.AddDate(0, 1, -1).Day()

	calendar := make([]Cell, 0, int(first.Weekday())+totalDays)
	// Pad so day 1 lands on its weekday column, 0=Sunday.
	for i := 0; i < int(first.Weekday()); i++ {
		calendar = append(calendar, Cell{})
	}
	for day := 1; day <= totalDays; day++ {
		d := day
		dateString := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
		cell := Cell{Date: &d, DateString: &dateString}
		if data, ok := byDay[dateString]; ok {
			mood := data.mood
			intensity := data.intensity
			cell.Mood = &mood
			cell.Intensity = &intensity
			if color, ok := colorByMood[mood]; ok {
				c := color
				cell.Color = &c
			}
		}
		calendar = append(calendar, cell)
	}

	suggestion := fallbackSuggestion
	if len(records) > 0 {
		topMood, topCount := "", 0
		for _, mood := range moodOrder {
			if counts[mood] > topCount {
				topMood, topCount = mood, counts[mood]
			}
		}
		if text, ok := suggestionByMood[topMood]; ok {
			suggestion = text
		}
	}

	return Result{
		Calendar:   calendar,
		DonutChart: donut,
		Suggestion: suggestion,
		Month:      first.Format("January 2006"),
	}
}
