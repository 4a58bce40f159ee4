package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/arlolabs/arlo/agent/contract"
	"github.com/arlolabs/arlo/export"
)

func (c *Catalog) executeSaveFile(req contractx.ToolRequest, save func(string) (string, error)) (contractx.ToolResult, error) {
	content, _ := req.Args["content"].(string)
	if strings.TrimSpace(content) == "" {
		return contractx.ToolResult{Tool: req.Tool, Error: "content is required"}, nil
	}

	path, err := save(content)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: "Could not save the file."}, nil
	}

	return contractx.ToolResult{
		Tool:   req.Tool,
		Result: map[string]any{"path": path},
		File:   path,
	}, nil
}

func (c *Catalog) executeSaveProgressChart(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
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

	// Sessions arrive newest first; the chart reads oldest to newest.
	points := make([]export.ProgressPoint, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		max := 0.0
		for _, set := range s.Sets {
			if set.Weight != nil && *set.Weight > max {
				max = *set.Weight
			}
		}
		points = append(points, export.ProgressPoint{Date: s.Date, Value: max})
	}

	path, err := c.exporter.SaveProgressChart(strings.TrimSpace(args.Exercise), points)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: "Could not render the progress chart."}, nil
	}

	return contractx.ToolResult{
		Tool:   req.Tool,
		Result: map[string]any{"path": path},
		File:   path,
	}, nil
}
