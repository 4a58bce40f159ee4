package workout

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is one logged workout event: a single exercise on a single date.
// It is never mutated after creation; removal cascades to its sets.
type Session struct {
	bun.BaseModel `bun:"table:workout_sessions,alias:ws"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Exercise  string    `bun:"exercise,notnull" json:"exercise"`
	Date      string    `bun:"workout_date,notnull" json:"workout_date"`
	Notes     string    `bun:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`

	Sets []*Set `bun:"rel:has-many,join:id=session_id" json:"sets,omitempty"`
}

// Set is one unit of work inside a session: a strength set (reps+weight)
// or a cardio interval (duration/distance). Metrics are nullable; at least
// one must be present, enforced at validation time.
type Set struct {
	bun.BaseModel `bun:"table:workout_sets,alias:st"`

	ID              int64    `bun:"id,pk,autoincrement" json:"id"`
	SessionID       int64    `bun:"session_id,notnull" json:"session_id"`
	SetNumber       int      `bun:"set_number,notnull" json:"set_number"`
	Reps            *int     `bun:"reps" json:"reps,omitempty"`
	Weight          *float64 `bun:"weight" json:"weight,omitempty"`
	DurationMinutes *float64 `bun:"duration_minutes" json:"duration_minutes,omitempty"`
	DistanceKM      *float64 `bun:"distance_km" json:"distance_km,omitempty"`
	Notes           string   `bun:"notes" json:"notes,omitempty"`
}

// LogResult confirms a successful LogWorkout call.
type LogResult struct {
	SessionID int64  `json:"session_id"`
	Exercise  string `json:"exercise"`
	Date      string `json:"workout_date"`
	SetCount  int    `json:"set_count"`
}

// DeleteResult identifies what DeleteLastWorkout removed, for user confirmation.
type DeleteResult struct {
	SessionID   int64  `json:"session_id"`
	Exercise    string `json:"exercise"`
	Date        string `json:"workout_date"`
	DeletedSets int    `json:"deleted_sets"`
}
