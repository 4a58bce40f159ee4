package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Store is the sole gatekeeper between the agent layer and the relational
// backing store. Every operation is a short synchronous transaction; the
// cascade on delete is performed explicitly so correctness does not depend
// on the SQLite foreign-key configuration.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

// Open opens (or creates) the SQLite backing file at path and ensures the
// schema exists. Use ":memory:" for an in-memory store in tests.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store directory: %w", err)
			}
		}
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One user, one turn in flight: a single pooled connection keeps the
	// foreign_keys pragma applied to every statement.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug().Str("path", path).Msg("workout store ready")
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*Session)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create workout_sessions table: %w", err)
	}

	if _, err := s.db.NewCreateTable().
		Model((*Set)(nil)).
		IfNotExists().
		ForeignKey(`("session_id") REFERENCES "workout_sessions" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create workout_sets table: %w", err)
	}

	return nil
}

// LogWorkout validates the payload and inserts one session row plus its set
// rows as a single transaction. On validation failure nothing is written.
func (s *Store) LogWorkout(ctx context.Context, p Payload) (*LogResult, error) {
	rec, err := Validate(p, s.now())
	if err != nil {
		return nil, err
	}

	session := &Session{
		Exercise:  rec.Exercise,
		Date:      rec.Date,
		Notes:     rec.Notes,
		CreatedAt: s.now().UTC(),
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(session).Exec(ctx); err != nil {
			return err
		}

		sets := make([]*Set, 0, len(rec.Sets))
		for _, sr := range rec.Sets {
			sets = append(sets, &Set{
				SessionID:       session.ID,
				SetNumber:       sr.SetNumber,
				Reps:            sr.Reps,
				Weight:          sr.Weight,
				DurationMinutes: sr.DurationMinutes,
				DistanceKM:      sr.DistanceKM,
				Notes:           sr.Notes,
			})
		}
		if _, err := tx.NewInsert().Model(&sets).Exec(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: log workout: %v", ErrPersistence, err)
	}

	log.Info().
		Int64("session_id", session.ID).
		Str("exercise", rec.Exercise).
		Str("date", rec.Date).
		Int("sets", len(rec.Sets)).
		Msg("workout logged")

	return &LogResult{
		SessionID: session.ID,
		Exercise:  rec.Exercise,
		Date:      rec.Date,
		SetCount:  len(rec.Sets),
	}, nil
}

// ExerciseProgress returns the most recent sessions for an exercise, newest
// first, each with its sets. An exercise with no history yields an empty
// slice, not an error.
func (s *Store) ExerciseProgress(ctx context.Context, exercise string, limit int) ([]*Session, error) {
	exercise = strings.TrimSpace(exercise)
	if exercise == "" {
		return nil, fmt.Errorf("%w: exercise_name is required", ErrValidation)
	}
	if limit <= 0 {
		limit = defaultSeriesSize
	}

	sessions := make([]*Session, 0)
	err := s.db.NewSelect().
		Model(&sessions).
		Relation("Sets", sortSets).
		Where("lower(ws.exercise) = lower(?)", exercise).
		OrderExpr("ws.workout_date DESC, ws.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load exercise progress: %v", ErrPersistence, err)
	}

	return sessions, nil
}

// LastWorkout returns the single most recently logged session with all of
// its sets. "Most recent" means (workout_date DESC, id DESC), the same key
// DeleteLastWorkout uses, so a reported session is the one a delete removes.
func (s *Store) LastWorkout(ctx context.Context) (*Session, error) {
	session := new(Session)
	err := s.db.NewSelect().
		Model(session).
		Relation("Sets", sortSets).
		OrderExpr("ws.workout_date DESC, ws.id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load last workout: %v", ErrPersistence, err)
	}
	return session, nil
}

// DeleteLastWorkout removes the most recent session and its sets atomically.
func (s *Store) DeleteLastWorkout(ctx context.Context) (*DeleteResult, error) {
	var result *DeleteResult

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		session := new(Session)
		if err := tx.NewSelect().
			Model(session).
			OrderExpr("ws.workout_date DESC, ws.id DESC").
			Limit(1).
			Scan(ctx); err != nil {
			return err
		}

		count, err := tx.NewSelect().
			Model((*Set)(nil)).
			Where("session_id = ?", session.ID).
			Count(ctx)
		if err != nil {
			return err
		}

		// Sets first, then the session: the cascade never relies on the
		// backing store's FK configuration.
		if _, err := tx.NewDelete().
			Model((*Set)(nil)).
			Where("session_id = ?", session.ID).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*Session)(nil)).
			Where("id = ?", session.ID).
			Exec(ctx); err != nil {
			return err
		}

		result = &DeleteResult{
			SessionID:   session.ID,
			Exercise:    session.Exercise,
			Date:        session.Date,
			DeletedSets: count,
		}
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: delete last workout: %v", ErrPersistence, err)
	}

	log.Info().
		Int64("session_id", result.SessionID).
		Str("exercise", result.Exercise).
		Int("deleted_sets", result.DeletedSets).
		Msg("last workout deleted")

	return result, nil
}

func sortSets(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("set_number ASC, id ASC")
}
