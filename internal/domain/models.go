package domain

import "time"

// Answer is one chosen option for an evaluation question.
type Answer struct {
	QuestionID int    `json:"questionId"`
	Text       string `json:"text"`
	Points     int    `json:"points"` // 0..3
}

// EvaluationResult is the outcome of the 15-question home energy survey.
// Score starts in [1.0, 10.0] and is later nudged by challenge toggles.
type EvaluationResult struct {
	Score       float64        `json:"score"`
	CompletedAt time.Time      `json:"completedAt"`
	Answers     map[int]Answer `json:"answers"`
}

// UserProfile holds the user-facing fields of a user document.
type UserProfile struct {
	Username    string    `json:"username"`
	ZipCode     string    `json:"zipCode"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// WeeklyTaskSet is the shared challenge list for one week. Exactly
// WeeklyTaskCount tasks, immutable once created.
type WeeklyTaskSet struct {
	WeekNumber int      `json:"weekNumber"`
	Tasks      []string `json:"tasks"`
}

// TaskProgress tracks which task indices a user has checked off for a week.
type TaskProgress struct {
	UserID     string       `json:"userId"`
	WeekNumber int          `json:"weekNumber"`
	Completed  map[int]bool `json:"completed"`
}

// ProgressState is the per-user, per-week checklist state.
type ProgressState string

const (
	ProgressNotStarted  ProgressState = "not_started"
	ProgressInProgress  ProgressState = "in_progress"
	ProgressAllComplete ProgressState = "all_complete"
)

// State derives the checklist state from the completed set.
func (p TaskProgress) State() ProgressState {
	done := 0
	for _, ok := range p.Completed {
		if ok {
			done++
		}
	}
	switch {
	case done == 0:
		return ProgressNotStarted
	case done >= WeeklyTaskCount:
		return ProgressAllComplete
	default:
		return ProgressInProgress
	}
}

// LeaderboardEntry is one ranked row of a zip-code cohort.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// Leaderboard is the ranked scoreboard for a zip-code cohort.
type Leaderboard struct {
	ZipCode   string             `json:"zipCode"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Article is a normalized news item from the news collaborator.
type Article struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Image  string `json:"image,omitempty"`
	URL    string `json:"url,omitempty"`
	Date   string `json:"date,omitempty"`
	Source string `json:"source,omitempty"`
}

// Bill is one utility bill line in the budgeting view.
type Bill struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Identity is a signed-in user as reported by the auth layer.
type Identity struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
}
