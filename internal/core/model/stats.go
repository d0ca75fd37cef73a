package model

// DayLayout is the key format used for Stats.DailyData.
const DayLayout = "2006-01-02"

// Stats holds accumulated focus history.
type Stats struct {
	TotalSessions   int
	TotalMinutes    int
	SkippedSessions int
	DailyData       map[string]int
	CurrentStreak   int
	LongestStreak   int
	LastSessionDay  string
}

// Summary is a derived view of Stats for a specific day.
type Summary struct {
	Today         int
	Week          int
	Month         int
	Total         int
	TotalMinutes  int
	CurrentStreak int
	LongestStreak int
}
