package workout

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	maxSetNumber      = 1000
	maxReps           = 100
	maxWeightKG       = 500
	maxDurationMin    = 600
	maxDistanceKM     = 200
	maxFutureDays     = 366
	dateLayout        = "2006-01-02"
	defaultSeriesSize = 200
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Payload is the loosely-typed tool-call argument shape for logging a
// workout. It is never persisted as-is; Validate turns it into a strict
// record or rejects it.
type Payload struct {
	Exercise string       `json:"exercise_name"`
	Date     string       `json:"workout_date"`
	Notes    string       `json:"notes,omitempty"`
	Sets     []SetPayload `json:"sets"`
}

type SetPayload struct {
	SetNumber       *int     `json:"set_number,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	Weight          *float64 `json:"weight,omitempty"`
	DurationMinutes *float64 `json:"duration_minutes,omitempty"`
	DistanceKM      *float64 `json:"distance_km,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// Record is the validated form of a Payload, safe to persist.
type Record struct {
	Exercise string
	Date     string
	Notes    string
	Sets     []SetRecord
}

type SetRecord struct {
	SetNumber       int
	Reps            *int
	Weight          *float64
	DurationMinutes *float64
	DistanceKM      *float64
	Notes           string
}

// NormalizeDate resolves relative date words against now, leaving ISO dates
// and unrecognized input untouched for Validate to reject.
func NormalizeDate(raw string, now time.Time) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	today := now

	switch trimmed {
	case "today", "todays", "today's":
		return today.Format(dateLayout)
	case "yesterday":
		return today.AddDate(0, 0, -1).Format(dateLayout)
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format(dateLayout)
	}
	if isoDatePattern.MatchString(trimmed) {
		return trimmed
	}
	return raw
}

// Validate turns a loose Payload into a strict Record. It fails with
// ErrValidation naming the first offending field; nothing is persisted on
// failure.
func Validate(p Payload, now time.Time) (*Record, error) {
	exercise := strings.TrimSpace(p.Exercise)
	if exercise == "" {
		return nil, fmt.Errorf("%w: exercise_name is required", ErrValidation)
	}

	date := NormalizeDate(p.Date, now)
	if date == "" {
		return nil, fmt.Errorf("%w: workout_date is required (YYYY-MM-DD)", ErrValidation)
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: workout_date must be a valid YYYY-MM-DD date", ErrValidation)
	}
	if parsed.After(now.AddDate(0, 0, maxFutureDays)) {
		return nil, fmt.Errorf("%w: workout_date %s is too far in the future", ErrValidation, date)
	}

	if len(p.Sets) == 0 {
		return nil, fmt.Errorf("%w: exercise %q has no sets", ErrValidation, exercise)
	}

	sets := make([]SetRecord, 0, len(p.Sets))
	for i, s := range p.Sets {
		number := i + 1
		if s.SetNumber != nil {
			number = *s.SetNumber
		}
		if number <= 0 || number > maxSetNumber {
			return nil, fmt.Errorf("%w: unreasonable set_number in %q", ErrValidation, exercise)
		}
		if s.Reps != nil && (*s.Reps < 0 || *s.Reps > maxReps) {
			return nil, fmt.Errorf("%w: unreasonable reps value in %q", ErrValidation, exercise)
		}
		if s.Weight != nil && (*s.Weight < 0 || *s.Weight > maxWeightKG) {
			return nil, fmt.Errorf("%w: unreasonable weight value in %q", ErrValidation, exercise)
		}
		if s.DurationMinutes != nil && (*s.DurationMinutes < 0 || *s.DurationMinutes > maxDurationMin) {
			return nil, fmt.Errorf("%w: unreasonable duration_minutes value in %q", ErrValidation, exercise)
		}
		if s.DistanceKM != nil && (*s.DistanceKM < 0 || *s.DistanceKM > maxDistanceKM) {
			return nil, fmt.Errorf("%w: unreasonable distance_km value in %q", ErrValidation, exercise)
		}

		if s.Reps == nil && s.Weight == nil && s.DurationMinutes == nil && s.DistanceKM == nil {
			return nil, fmt.Errorf("%w: a set in %q is missing metrics (reps/weight/duration/distance)", ErrValidation, exercise)
		}

		sets = append(sets, SetRecord{
			SetNumber:       number,
			Reps:            s.Reps,
			Weight:          s.Weight,
			DurationMinutes: s.DurationMinutes,
			DistanceKM:      s.DistanceKM,
			Notes:           strings.TrimSpace(s.Notes),
		})
	}

	return &Record{
		Exercise: exercise,
		Date:     date,
		Notes:    strings.TrimSpace(p.Notes),
		Sets:     sets,
	}, nil
}
