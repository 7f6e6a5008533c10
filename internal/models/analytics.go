package models

// MoodAnalytics summarises a user's moods over a period.
type MoodAnalytics struct {
	Period       string         `json:"period"`
	TotalEntries int            `json:"total_entries"`
	AverageScore float64        `json:"average_score"`
	MostFrequent string         `json:"most_frequent_mood,omitempty"`
	MoodCounts   map[string]int `json:"mood_counts"`
	Timeline     []MoodDay      `json:"timeline"`
}

// MoodDay is one point of the analytics timeline.
type MoodDay struct {
	Date         string  `json:"date"`
	AverageScore float64 `json:"average_score"`
	EntryCount   int     `json:"entry_count"`
}

// Analytics periods accepted by the dashboard.
const (
	Period7Days  = "7d"
	Period15Days = "15d"
	Period30Days = "30d"
)

// AnalyticsPeriods lists every period whose cached summary must be dropped on a mutation.
var AnalyticsPeriods = []string{Period7Days, Period15Days, Period30Days}
