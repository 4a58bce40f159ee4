package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/arlolabs/arlo/agent/contract"
	"github.com/arlolabs/arlo/workout"
)

const msgNothingLogged = "No workouts logged yet."

func (c *Catalog) executeLogWorkout(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	var payload workout.Payload
	if err := decodeArgs(req.Args, &payload); err != nil {
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("Invalid workout payload: %v", err),
		}, nil
	}

	res, err := c.store.LogWorkout(ctx, payload)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: workoutErrorMessage(err)}, nil
	}

	return contractx.ToolResult{
		Tool: req.Tool,
		Result: map[string]any{
			"message": fmt.Sprintf("Logged workout #%d (%s) on %s with %d sets.",
				res.SessionID, res.Exercise, res.Date, res.SetCount),
			"workout": res,
		},
	}, nil
}

func (c *Catalog) executeGetExerciseProgress(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	var args struct {
		Exercise string `json:"exercise_name"`
		Limit    int    `json:"limit"`
	}
	if err := decodeArgs(req.Args, &args); err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: fmt.Sprintf("Invalid arguments: %v", err)}, nil
	}

	sessions, err := c.store.ExerciseProgress(ctx, args.Exercise, args.Limit)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: workoutErrorMessage(err)}, nil
	}
	if len(sessions) == 0 {
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("No logged sets found for %s.", strings.TrimSpace(args.Exercise)),
		}, nil
	}

	return contractx.ToolResult{
		Tool: req.Tool,
		Result: map[string]any{
			"exercise": strings.TrimSpace(args.Exercise),
			"sessions": sessions,
		},
	}, nil
}

func (c *Catalog) executeGetLastWorkout(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	session, err := c.store.LastWorkout(ctx)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: workoutErrorMessage(err)}, nil
	}

	return contractx.ToolResult{
		Tool:   req.Tool,
		Result: map[string]any{"workout": session},
	}, nil
}

func (c *Catalog) executeDeleteLastWorkout(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	confirm, _ := req.Args["confirm"].(string)
	switch strings.ToLower(strings.TrimSpace(confirm)) {
	case "delete_last_workout", "confirm":
	default:
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: "Missing confirmation. Call again with confirm=\"delete_last_workout\".",
		}, nil
	}

	res, err := c.store.DeleteLastWorkout(ctx)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: workoutErrorMessage(err)}, nil
	}

	return contractx.ToolResult{
		Tool: req.Tool,
		Result: map[string]any{
			"message": fmt.Sprintf("Deleted workout #%d (%s) from %s and %d related sets.",
				res.SessionID, res.Exercise, res.Date, res.DeletedSets),
			"deleted": res,
		},
	}, nil
}

// decodeArgs maps loose tool-call arguments onto a typed struct. Anything
// that does not map cleanly is rejected here, before any store logic runs.
func decodeArgs(args map[string]any, out any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// workoutErrorMessage converts a store error into the message the model
// relays to the user. Persistence details never leak into chat.
func workoutErrorMessage(err error) string {
	switch {
	case errors.Is(err, workout.ErrNotFound):
		return msgNothingLogged
	case errors.Is(err, workout.ErrValidation):
		return fmt.Sprintf("Invalid workout payload: %s", strings.TrimPrefix(err.Error(), workout.ErrValidation.Error()+": "))
	default:
		return "Something went wrong while accessing the workout log. Nothing was changed."
	}
}
