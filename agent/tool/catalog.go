// Package tool defines the function-calling catalog the assistant exposes
// to the model, and dispatches tool calls into the workout store and the
// document exporter. Every failure crosses this boundary as a tagged
// ToolResult with a message the model can relay verbatim, never a crash.
package tool

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/rs/zerolog/log"

	contractx "github.com/arlolabs/arlo/agent/contract"
)

const (
	ToolLogWorkout          = "log_workout"
	ToolGetExerciseProgress = "get_exercise_progress"
	ToolGetLastWorkout      = "get_last_workout"
	ToolDeleteLastWorkout   = "delete_last_workout"
	ToolSaveTxtFile         = "save_to_txt_file"
	ToolSaveMdFile          = "save_to_md_file"
	ToolSavePdfFile         = "save_to_pdf_file"
	ToolSaveProgressChart   = "save_progress_chart"
)

// Catalog binds tool definitions to their executors.
type Catalog struct {
	store    contractx.WorkoutStore
	exporter contractx.Exporter
}

func NewCatalog(store contractx.WorkoutStore, exporter contractx.Exporter) (*Catalog, error) {
	if store == nil {
		return nil, errors.New("workout store is required")
	}
	if exporter == nil {
		return nil, errors.New("exporter is required")
	}
	return &Catalog{store: store, exporter: exporter}, nil
}

// Execute dispatches one tool request. Unknown tools produce an in-band
// error result rather than a Go error, so the model can recover.
func (c *Catalog) Execute(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	log.Debug().Str("tool", req.Tool).Msg("executing tool call")

	switch req.Tool {
	case ToolLogWorkout:
		return c.executeLogWorkout(ctx, req)
	case ToolGetExerciseProgress:
		return c.executeGetExerciseProgress(ctx, req)
	case ToolGetLastWorkout:
		return c.executeGetLastWorkout(ctx, req)
	case ToolDeleteLastWorkout:
		return c.executeDeleteLastWorkout(ctx, req)
	case ToolSaveTxtFile:
		return c.executeSaveFile(req, c.exporter.SaveText)
	case ToolSaveMdFile:
		return c.executeSaveFile(req, c.exporter.SaveMarkdown)
	case ToolSavePdfFile:
		return c.executeSaveFile(req, c.exporter.SavePDF)
	case ToolSaveProgressChart:
		return c.executeSaveProgressChart(ctx, req)
	default:
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("tool=%s is unavailable", req.Tool),
		}, nil
	}
}

// Specs returns the function definitions advertised to the model.
func (c *Catalog) Specs() []openai.ChatCompletionToolUnionParam {
	setSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"set_number":       map[string]any{"type": "integer", "description": "1-based set index, auto-assigned if omitted"},
			"reps":             map[string]any{"type": "integer"},
			"weight":           map[string]any{"type": "number", "description": "Weight in kg"},
			"duration_minutes": map[string]any{"type": "number"},
			"distance_km":      map[string]any{"type": "number"},
			"notes":            map[string]any{"type": "string"},
		},
	}

	return []openai.ChatCompletionToolUnionParam{
		functionTool(ToolLogWorkout,
			"Log one workout: a single exercise on a single date with its sets. Each set needs reps+weight or a cardio metric (duration_minutes/distance_km).",
			openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"exercise_name": map[string]any{"type": "string"},
					"workout_date":  map[string]any{"type": "string", "description": "YYYY-MM-DD, or today/yesterday/tomorrow"},
					"notes":         map[string]any{"type": "string"},
					"sets":          map[string]any{"type": "array", "items": setSchema},
				},
				"required": []string{"exercise_name", "workout_date", "sets"},
			}),
		functionTool(ToolGetExerciseProgress,
			"Return the most recent logged sessions for one exercise, newest first, each with its sets.",
			openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"exercise_name": map[string]any{"type": "string"},
					"limit":         map[string]any{"type": "integer", "description": "Maximum sessions to return"},
				},
				"required": []string{"exercise_name"},
			}),
		functionTool(ToolGetLastWorkout,
			"Return the most recently logged workout and all of its sets.",
			openai.FunctionParameters{
				"type":       "object",
				"properties": map[string]any{},
			}),
		functionTool(ToolDeleteLastWorkout,
			"Delete the most recently logged workout and all of its sets.",
			openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"confirm": map[string]any{"type": "string", "description": "Must be \"delete_last_workout\" or \"confirm\""},
				},
				"required": []string{"confirm"},
			}),
		functionTool(ToolSaveTxtFile,
			"Save plain text content to a file. Returns the file path.",
			contentOnlyParameters("Text content")),
		functionTool(ToolSaveMdFile,
			"Save Markdown content to a file. Returns the file path.",
			contentOnlyParameters("Markdown content")),
		functionTool(ToolSavePdfFile,
			"Save Markdown content as a PDF file. Returns the file path.",
			contentOnlyParameters("Markdown content")),
		functionTool(ToolSaveProgressChart,
			"Render a weight-over-time chart for one exercise and save it as an HTML file. Returns the file path.",
			openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"exercise_name": map[string]any{"type": "string"},
					"limit":         map[string]any{"type": "integer", "description": "Maximum sessions to chart"},
				},
				"required": []string{"exercise_name"},
			}),
	}
}

func functionTool(name, description string, params openai.FunctionParameters) openai.ChatCompletionToolUnionParam {
	return openai.ChatCompletionToolUnionParam{
		OfFunction: &openai.ChatCompletionFunctionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        name,
				Description: openai.String(description),
				Parameters:  params,
			},
		},
	}
}

func contentOnlyParameters(desc string) openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{"type": "string", "description": desc},
		},
		"required": []string{"content"},
	}
}
