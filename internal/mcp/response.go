package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// createJSONResponse marshals data into a single text content block.
func createJSONResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

// createErrorResponse reports a tool failure as structured JSON rather than a
// protocol error, so clients always get a parseable body.
func createErrorResponse(tool string, err error) (*mcp.CallToolResult, error) {
	return createJSONResponse(map[string]interface{}{
		"tool":  tool,
		"error": err.Error(),
	})
}
