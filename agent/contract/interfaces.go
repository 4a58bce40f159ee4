package contract

import (
	"context"

	"github.com/arlolabs/arlo/export"
	"github.com/arlolabs/arlo/workout"
)

// WorkoutStore is the persistence contract the tool layer depends on.
type WorkoutStore interface {
	LogWorkout(ctx context.Context, p workout.Payload) (*workout.LogResult, error)
	ExerciseProgress(ctx context.Context, exercise string, limit int) ([]*workout.Session, error)
	LastWorkout(ctx context.Context) (*workout.Session, error)
	DeleteLastWorkout(ctx context.Context) (*workout.DeleteResult, error)
}

// Exporter renders assistant documents to files.
type Exporter interface {
	SaveText(content string) (string, error)
	SaveMarkdown(content string) (string, error)
	SavePDF(content string) (string, error)
	SaveProgressChart(exercise string, points []export.ProgressPoint) (string, error)
}
