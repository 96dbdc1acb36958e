package repositories

import "time"

// ===== SHARED FILTER STRUCTS =====

type ResultFilters struct {
	ExerciseIDs []uint     `json:"exercise_ids"`
	Completed   *bool      `json:"completed"`
	DateFrom    *time.Time `json:"date_from"`
	DateTo      *time.Time `json:"date_to"`
	Limit       int        `json:"limit"`
	Offset      int        `json:"offset"`
	SortBy      string     `json:"sort_by"`    // "created_at", "score"
	SortOrder   string     `json:"sort_order"` // "asc", "desc"
}

type EnrollmentFilters struct {
	Completed *bool `json:"completed"`
	Limit     int   `json:"limit"`
	Offset    int   `json:"offset"`
}

type TestFilters struct {
	UnitID *uint `json:"unit_id"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type TestResultStats struct {
	TotalSubmissions int     `json:"total_submissions"`
	AverageScore     float64 `json:"average_score"`
	HighestScore     int     `json:"highest_score"`
	LowestScore      int     `json:"lowest_score"`
}
