package workout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func strengthPayload(exercise, date string, reps int, weight float64) Payload {
	return Payload{
		Exercise: exercise,
		Date:     date,
		Sets: []SetPayload{
			{Reps: intp(reps), Weight: floatp(weight)},
		},
	}
}

func TestLogWorkoutThenLastWorkout(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	res, err := store.LogWorkout(ctx, Payload{
		Exercise: "Bench Press",
		Date:     "2024-01-01",
		Notes:    "felt strong",
		Sets: []SetPayload{
			{Reps: intp(5), Weight: floatp(100)},
			{Reps: intp(5), Weight: floatp(100)},
			{DurationMinutes: floatp(2), Notes: "rest-pause burnout"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "Bench Press", res.Exercise)
	require.Equal(t, "2024-01-01", res.Date)
	require.Equal(t, 3, res.SetCount)
	require.NotZero(t, res.SessionID)

	last, err := store.LastWorkout(ctx)
	require.NoError(t, err)
	require.Equal(t, res.SessionID, last.ID)
	require.Equal(t, "Bench Press", last.Exercise)
	require.Equal(t, "2024-01-01", last.Date)
	require.Equal(t, "felt strong", last.Notes)
	require.Len(t, last.Sets, 3)

	require.Equal(t, 1, last.Sets[0].SetNumber)
	require.Equal(t, 5, *last.Sets[0].Reps)
	require.Equal(t, 100.0, *last.Sets[0].Weight)
	require.Nil(t, last.Sets[0].DurationMinutes)
	require.Equal(t, 3, last.Sets[2].SetNumber)
	require.Equal(t, "rest-pause burnout", last.Sets[2].Notes)
}

func TestLogWorkoutValidationWritesNothing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cases := []Payload{
		{Exercise: "Squat", Date: "2024-01-01", Sets: []SetPayload{{Reps: intp(-3), Weight: floatp(80)}}},
		{Exercise: "Squat", Date: "2024-01-01", Sets: []SetPayload{{Reps: intp(5), Weight: floatp(-1)}}},
		{Exercise: "Squat", Date: "2024-01-01", Sets: []SetPayload{{Notes: "no metrics at all"}}},
		{Exercise: "", Date: "2024-01-01", Sets: []SetPayload{{Reps: intp(5), Weight: floatp(80)}}},
		{Exercise: "Squat", Date: "not-a-date", Sets: []SetPayload{{Reps: intp(5), Weight: floatp(80)}}},
		{Exercise: "Squat", Date: "2024-01-01", Sets: nil},
	}
	for _, p := range cases {
		_, err := store.LogWorkout(ctx, p)
		require.ErrorIs(t, err, ErrValidation)
	}

	_, err := store.LastWorkout(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLastWorkoutEmptyStore(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LastWorkout(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteLastWorkoutEmptyStore(t *testing.T) {
	store := newTestStore(t)

	_, err := store.DeleteLastWorkout(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteLastWorkoutCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.LogWorkout(ctx, strengthPayload("Bench Press", "2024-01-01", 5, 100))
	require.NoError(t, err)
	second, err := store.LogWorkout(ctx, Payload{
		Exercise: "Bench Press",
		Date:     "2024-01-03",
		Sets: []SetPayload{
			{Reps: intp(5), Weight: floatp(105)},
			{Reps: intp(5), Weight: floatp(105)},
		},
	})
	require.NoError(t, err)

	deleted, err := store.DeleteLastWorkout(ctx)
	require.NoError(t, err)
	require.Equal(t, second.SessionID, deleted.SessionID)
	require.Equal(t, "Bench Press", deleted.Exercise)
	require.Equal(t, "2024-01-03", deleted.Date)
	require.Equal(t, 2, deleted.DeletedSets)

	// No orphan sets left behind.
	count, err := store.db.NewSelect().
		Model((*Set)(nil)).
		Where("session_id = ?", second.SessionID).
		Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	last, err := store.LastWorkout(ctx)
	require.NoError(t, err)
	require.Equal(t, first.SessionID, last.ID)

	_, err = store.DeleteLastWorkout(ctx)
	require.NoError(t, err)

	_, err = store.LastWorkout(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMostRecentPrefersDateOverInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Backfill: the later insert carries an earlier date.
	newer, err := store.LogWorkout(ctx, strengthPayload("Deadlift", "2024-02-10", 3, 140))
	require.NoError(t, err)
	_, err = store.LogWorkout(ctx, strengthPayload("Deadlift", "2024-02-05", 3, 135))
	require.NoError(t, err)

	last, err := store.LastWorkout(ctx)
	require.NoError(t, err)
	require.Equal(t, newer.SessionID, last.ID)

	// Delete uses the same key: it removes what LastWorkout reported.
	deleted, err := store.DeleteLastWorkout(ctx)
	require.NoError(t, err)
	require.Equal(t, newer.SessionID, deleted.SessionID)
}

func TestMostRecentTieBrokenByInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.LogWorkout(ctx, strengthPayload("Row", "2024-03-01", 8, 60))
	require.NoError(t, err)
	later, err := store.LogWorkout(ctx, strengthPayload("Pull Up", "2024-03-01", 8, 0))
	require.NoError(t, err)

	last, err := store.LastWorkout(ctx)
	require.NoError(t, err)
	require.Equal(t, later.SessionID, last.ID)
}

func TestExerciseProgressOrderingAndIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.LogWorkout(ctx, strengthPayload("Bench Press", "2024-01-01", 5, 100))
	require.NoError(t, err)
	_, err = store.LogWorkout(ctx, strengthPayload("Squat", "2024-01-02", 5, 120))
	require.NoError(t, err)
	_, err = store.LogWorkout(ctx, strengthPayload("bench press", "2024-01-03", 5, 105))
	require.NoError(t, err)

	sessions, err := store.ExerciseProgress(ctx, "Bench Press", 0)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, "2024-01-03", sessions[0].Date)
	require.Equal(t, "2024-01-01", sessions[1].Date)
	require.Len(t, sessions[0].Sets, 1)
	require.Equal(t, 105.0, *sessions[0].Sets[0].Weight)

	limited, err := store.ExerciseProgress(ctx, "Bench Press", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, "2024-01-03", limited[0].Date)
}

func TestExerciseProgressNoHistory(t *testing.T) {
	store := newTestStore(t)

	sessions, err := store.ExerciseProgress(context.Background(), "Overhead Press", 10)
	require.NoError(t, err)
	require.Empty(t, sessions)
}

func TestExerciseProgressRequiresName(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ExerciseProgress(context.Background(), "  ", 10)
	require.ErrorIs(t, err, ErrValidation)
}

// Full session lifecycle: log, inspect, progress, delete, inspect again.
func TestBenchPressScenario(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.LogWorkout(ctx, strengthPayload("Bench Press", "2024-01-01", 5, 100))
	require.NoError(t, err)

	last, err := store.LastWorkout(ctx)
	require.NoError(t, err)
	require.Equal(t, "Bench Press", last.Exercise)
	require.Len(t, last.Sets, 1)
	require.Equal(t, 5, *last.Sets[0].Reps)
	require.Equal(t, 100.0, *last.Sets[0].Weight)

	_, err = store.LogWorkout(ctx, strengthPayload("Bench Press", "2024-01-03", 5, 105))
	require.NoError(t, err)

	progress, err := store.ExerciseProgress(ctx, "Bench Press", 0)
	require.NoError(t, err)
	require.Len(t, progress, 2)
	require.Equal(t, "2024-01-03", progress[0].Date)
	require.Equal(t, "2024-01-01", progress[1].Date)

	deleted, err := store.DeleteLastWorkout(ctx)
	require.NoError(t, err)
	require.Equal(t, "2024-01-03", deleted.Date)

	last, err = store.LastWorkout(ctx)
	require.NoError(t, err)
	require.Equal(t, "2024-01-01", last.Date)
}
