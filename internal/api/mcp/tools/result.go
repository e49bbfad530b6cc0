package tools

import (
	"encoding/json"
	"fmt"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/mcp"
)

func errorResult(format string, args ...interface{}) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.ToolResultContent{
			{
				Type: "text",
				Text: fmt.Sprintf(format, args...),
			},
		},
		IsError: true,
	}
}

// jsonResult renders v as indented JSON after a one-line heading
func jsonResult(heading string, v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error formatting response: %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.ToolResultContent{
			{
				Type: "text",
				Text: heading + "\n" + string(data),
			},
		},
		IsError: false,
	}
}

func recordIDSchema() mcp.JSONSchema {
	return mcp.JSONSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"recordId": map[string]string{
				"type":        "string",
				"description": "The reconciliation record ID",
			},
		},
		Required: []string{"recordId"},
	}
}

func parseRecordID(arguments json.RawMessage) (string, *mcp.CallToolResult) {
	var args struct {
		RecordID string `json:"recordId"`
	}
	if err := json.Unmarshal(arguments, &args); err != nil {
		return "", errorResult("Error parsing arguments: %v", err)
	}
	if args.RecordID == "" {
		return "", errorResult("recordId is required")
	}
	return args.RecordID, nil
}
