package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// rankResumesTool returns the tool definition for rank_resumes
func rankResumesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rank_resumes",
		Description: "Rank candidate resumes against a job description using lexical, semantic, and LLM signals",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"job_description": map[string]interface{}{
					"type":        "string",
					"description": "The job description to rank candidates against",
				},
				"resumes": map[string]interface{}{
					"type":        "array",
					"description": "Candidate resumes to rank",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"name": map[string]interface{}{
								"type":        "string",
								"description": "Candidate or file name",
							},
							"text": map[string]interface{}{
								"type":        "string",
								"description": "Full resume text",
							},
						},
						"required": []string{"name", "text"},
					},
				},
			},
			Required: []string{"job_description", "resumes"},
		},
	}
}

// getConfigTool returns the tool definition for get_config
func getConfigTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_config",
		Description: "Report the ensemble weights and which scoring signals are available",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// listRunsTool returns the tool definition for list_runs
func listRunsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_runs",
		Description: "List recent ranking runs, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of runs to return (1-100)",
					"default":     20,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}

// getRunTool returns the tool definition for get_run
func getRunTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_run",
		Description: "Load one past ranking run with its full result list",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier returned by rank_resumes",
				},
			},
			Required: []string{"run_id"},
		},
	}
}
