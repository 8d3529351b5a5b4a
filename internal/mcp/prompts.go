// ABOUTME: MCP prompt definitions and handlers
// ABOUTME: Provides workflow templates for cleaning up and republishing feeds

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.registerCleanFeedPrompt()
}

func (s *Server) registerCleanFeedPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "clean-feed",
			Description: "Load a feed, review and fix its items field by field, then regenerate the XML",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "url",
					Description: "Feed URL to clean up",
					Required:    false,
				},
			},
		},
		s.handleCleanFeed,
	)
}

func (s *Server) handleCleanFeed(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	target := "the feed the user names"
	if url := req.Params.Arguments["url"]; url != "" {
		target = url
	}

	template := fmt.Sprintf(`# Clean Up A Feed

## Overview
Load %s, inspect every item, correct broken or missing fields, and produce a corrected RSS or Atom document.

## Workflow Steps

### Step 1: Summarise
Use **feed_info** with the URL. Note the feed type, item count and the field names in use.
Fields present on only a few items are candidates for filling in or removing.

### Step 2: Load
Use **load_feed** with the URL. Keep the returned feed object; every later step edits it.
If the result is an error, read its type:
- VALIDATION_ERROR or INVALID_URL: the URL or document is unusable, ask the user.
- FETCH_ERROR: the server failed after retries, try again later.
- PARSE_ERROR: the document is not RSS or Atom.

### Step 3: Review Items
For each item check:
- title is present and not truncated
- link (or Atom link href) is absolute
- pubDate / updated parses as a date
- description / content is not empty HTML

Fields shown as {"text":...,"attributes":{...}} carry XML attributes. Edit the text with value, or one attribute with attribute + value.

### Step 4: Edit
Use **edit_item** once per change, passing the feed returned by the previous call.
Use delete=true to drop a field. Item indexes are 0-based.

### Step 5: Regenerate
Use **generate_xml** with the final feed. Use **feed_filename** with the channel title to name the file.

## Tips
- rssedit://config shows the fetch timeout and retry limits in effect.
- rssedit://errors lists every error type and its causes.
`, target)

	return &mcp.GetPromptResult{
		Description: "Workflow for cleaning up a feed",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}
