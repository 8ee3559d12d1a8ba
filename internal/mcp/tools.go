package mcp

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hirelens/hirelens/internal/storage"
	"github.com/hirelens/hirelens/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeNoUsableResumes = -32001 // Every submitted resume was empty
	ErrorCodeRunNotFound     = -32002 // Requested run does not exist
	ErrorCodeHistoryDisabled = -32003 // Run history is not configured
)

// handleRankResumes handles the rank_resumes tool invocation
func (s *Server) handleRankResumes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	jobDescription, ok := args["job_description"].(string)
	if !ok || jobDescription == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "job_description parameter is required", map[string]interface{}{
			"param":  "job_description",
			"reason": "missing or empty",
		})
	}

	candidates, err := parseResumes(args["resumes"])
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, err.Error(), map[string]interface{}{
			"param": "resumes",
		})
	}

	resp, err := s.pipe.Run(ctx, &types.RankRequest{
		JobDescription: jobDescription,
		Candidates:     candidates,
	})
	if err != nil {
		if errors.Is(err, types.ErrNoUsableInput) {
			return nil, newMCPError(ErrorCodeNoUsableResumes, "no usable resume text in request", nil)
		}
		if errors.Is(err, types.ErrNoCandidates) {
			return nil, newMCPError(ErrorCodeInvalidParams, "at least one resume is required", nil)
		}
		return nil, newMCPError(ErrorCodeInternalError, "ranking failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"run_id":  resp.RunID,
		"results": resp.Results,
		"summary": resp.Summary,
	})), nil
}

// handleGetConfig handles the get_config tool invocation
func (s *Server) handleGetConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weights := s.pipe.Weights()
	contextualOK, reason := s.pipe.AnalyzerAvailable()

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"weights": map[string]interface{}{
			"lexical":    weights.Lexical,
			"semantic":   weights.Semantic,
			"contextual": weights.Contextual,
		},
		"contextual_available": contextualOK,
		"contextual_reason":    reason,
		"history_enabled":      s.store != nil,
	})), nil
}

// handleListRuns handles the list_runs tool invocation
func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return nil, newMCPError(ErrorCodeHistoryDisabled, "run history is not configured", nil)
	}

	limit := 20
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		limit = getIntDefault(args, "limit", 20)
	}

	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list runs", map[string]interface{}{
			"error": err.Error(),
		})
	}

	views := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		views = append(views, map[string]interface{}{
			"run_id":          run.ID,
			"job_description": run.JobDescription,
			"summary":         run.Summary,
			"created_at":      run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"runs": views,
	})), nil
}

// handleGetRun handles the get_run tool invocation
func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return nil, newMCPError(ErrorCodeHistoryDisabled, "run history is not configured", nil)
	}

	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	runID, ok := args["run_id"].(string)
	if !ok || runID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "run_id parameter is required", map[string]interface{}{
			"param":  "run_id",
			"reason": "missing or empty",
		})
	}

	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newMCPError(ErrorCodeRunNotFound, "run not found", map[string]interface{}{
				"run_id": runID,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to load run", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"run_id":          run.ID,
		"job_description": run.JobDescription,
		"results":         run.Results,
		"summary":         run.Summary,
		"created_at":      run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})), nil
}

// Helper functions

// parseResumes converts the raw resumes argument into candidates.
func parseResumes(raw interface{}) ([]types.Candidate, error) {
	items, ok := raw.([]interface{})
	if !ok || len(items) == 0 {
		return nil, errors.New("resumes parameter must be a non-empty array")
	}

	candidates := make([]types.Candidate, 0, len(items))
	for i, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("resume at index %d is not an object", i)
		}
		name, _ := entry["name"].(string)
		text, _ := entry["text"].(string)
		if name == "" {
			return nil, fmt.Errorf("resume at index %d is missing a name", i)
		}
		candidates = append(candidates, types.Candidate{Name: name, Text: text})
	}
	return candidates, nil
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a value as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
