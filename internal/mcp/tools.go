// ABOUTME: MCP tool definitions and handlers for feed operations
// ABOUTME: Provides tools for loading, parsing, editing and regenerating RSS/Atom XML

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/rssedit/internal/discover"
	"github.com/harper/rssedit/internal/export"
	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/fetch"
	"github.com/harper/rssedit/internal/models"
	"github.com/harper/rssedit/internal/parse"
	"github.com/harper/rssedit/internal/summary"
)

// Type definitions for input/output structures

type LoadFeedInput struct {
	URL        string `json:"url"`
	IncludeRaw *bool  `json:"include_raw,omitempty"`
}

type FeedOutput struct {
	Feed   *models.Feed `json:"feed"`
	RawXML string       `json:"rawXml,omitempty"`
}

type ParseXMLInput struct {
	XML string `json:"xml"`
}

type GenerateXMLInput struct {
	Feed *models.Feed `json:"feed"`
}

type FeedFilenameInput struct {
	Title string `json:"title"`
}

type FeedFilenameOutput struct {
	Filename string `json:"filename"`
}

type FeedInfoInput struct {
	URL string `json:"url"`
}

type DiscoverFeedInput struct {
	URL string `json:"url"`
}

type EditItemInput struct {
	Feed      *models.Feed `json:"feed"`
	Item      int          `json:"item"`
	Field     string       `json:"field"`
	Value     *string      `json:"value,omitempty"`
	Attribute *string      `json:"attribute,omitempty"`
	Delete    *bool        `json:"delete,omitempty"`
}

// ErrorOutput is the body of a tool result for a failed feed operation.
type ErrorOutput struct {
	Error *feederr.Error `json:"error"`
	Feed  *models.Feed   `json:"feed,omitempty"`
}

func (s *Server) registerTools() {
	s.registerLoadFeedTool()
	s.registerParseXMLTool()
	s.registerGenerateXMLTool()
	s.registerFeedFilenameTool()
	s.registerFeedInfoTool()
	s.registerEditItemTool()
	s.registerDiscoverFeedTool()
}

func (s *Server) registerLoadFeedTool() {
	tool := mcp.Tool{
		Name:        "load_feed",
		Description: "Fetch an RSS 2.0 or Atom feed from an http(s) URL and convert it into editable records. Returns channelFields, items (one flat record per item/entry, namespace prefixes stripped) and feedType. Fields whose element carried attributes are JSON strings of the form {\"text\":...,\"attributes\":{...}}. Transient failures are retried with exponential backoff.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "The feed URL. Example: 'https://example.com/feed.xml'",
				},
				"include_raw": map[string]interface{}{
					"type":        "boolean",
					"description": "Also return the raw XML as fetched (default: false)",
				},
			},
			Required: []string{"url"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleLoadFeed)
}

func (s *Server) registerParseXMLTool() {
	tool := mcp.Tool{
		Name:        "parse_xml",
		Description: "Parse RSS 2.0 or Atom XML supplied directly as text. Returns the same structure as load_feed. Documents without items or entries are reported as VALIDATION_ERROR together with the channel fields that could be read.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"xml": map[string]interface{}{
					"type":        "string",
					"description": "Complete feed XML document",
				},
			},
			Required: []string{"xml"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleParseXML)
}

func (s *Server) registerGenerateXMLTool() {
	tool := mcp.Tool{
		Name:        "generate_xml",
		Description: "Serialize a feed object (as returned by load_feed or parse_xml, possibly edited) back into RSS 2.0 or Atom XML, depending on its feedType.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"feed": map[string]interface{}{
					"type":        "object",
					"description": "Feed object with channelFields, items and feedType",
				},
			},
			Required: []string{"feed"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleGenerateXML)
}

func (s *Server) registerFeedFilenameTool() {
	tool := mcp.Tool{
		Name:        "feed_filename",
		Description: "Derive the download filename for a feed title: lowercased, every non-alphanumeric character replaced by '_', truncated, with a .xml suffix. Example: 'My Feed! (2024)' becomes 'my_feed___2024_.xml'.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Feed title; empty yields 'feed.xml'",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleFeedFilename)
}

func (s *Server) registerFeedInfoTool() {
	tool := mcp.Tool{
		Name:        "feed_info",
		Description: "Fetch a feed and summarise it: feed type and version, item count, the item field names, channel title/description/link/language, and the newest and oldest item publication dates.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "The feed URL",
				},
			},
			Required: []string{"url"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleFeedInfo)
}

func (s *Server) registerEditItemTool() {
	tool := mcp.Tool{
		Name:        "edit_item",
		Description: "Edit one field of one item in a feed object and return the edited feed. Setting a value keeps attributes the field already has. Pass attribute to set a single attribute instead of the text, or delete=true to remove the field.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"feed": map[string]interface{}{
					"type":        "object",
					"description": "Feed object with channelFields, items and feedType",
				},
				"item": map[string]interface{}{
					"type":        "integer",
					"description": "0-based item index",
				},
				"field": map[string]interface{}{
					"type":        "string",
					"description": "Field name, e.g. 'title' or 'link'",
				},
				"value": map[string]interface{}{
					"type":        "string",
					"description": "New text (or attribute value when attribute is set)",
				},
				"attribute": map[string]interface{}{
					"type":        "string",
					"description": "Optional attribute name, e.g. 'href'",
				},
				"delete": map[string]interface{}{
					"type":        "boolean",
					"description": "Remove the field from the item",
				},
			},
			Required: []string{"feed", "item", "field"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleEditItem)
}

func (s *Server) registerDiscoverFeedTool() {
	tool := mcp.Tool{
		Name:        "discover_feed",
		Description: "Find the RSS/Atom feed for a web page. Checks whether the URL is itself a feed, then <link rel=\"alternate\"> elements in the page, then common paths such as /feed.xml and /rss. Returns the feed URL, title, feedType and how it was found (direct, link or probe).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "Web page or feed URL. Example: 'https://example.com/blog'",
				},
			},
			Required: []string{"url"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleDiscoverFeed)
}

func (s *Server) handleLoadFeed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input LoadFeedInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	res, err := s.loader.Load(ctx, input.URL)
	if err != nil {
		var partial *models.Feed
		if res != nil {
			partial = res.Feed
		}
		return feedErrorResult(err, partial)
	}

	output := FeedOutput{Feed: res.Feed}
	if input.IncludeRaw != nil && *input.IncludeRaw {
		output.RawXML = res.RawXML
	}
	return jsonResult(output)
}

func (s *Server) handleParseXML(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ParseXMLInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if strings.TrimSpace(input.XML) == "" {
		return nil, fmt.Errorf("xml is required")
	}

	res := parse.ParseString(input.XML)
	if res.Err != nil {
		return feedErrorResult(res.Err, res.Feed)
	}
	return jsonResult(FeedOutput{Feed: res.Feed})
}

func (s *Server) handleGenerateXML(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GenerateXMLInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	xml, err := export.Render(input.Feed)
	if err != nil {
		return feedErrorResult(err, nil)
	}
	return mcp.NewToolResultText(xml), nil
}

func (s *Server) handleFeedFilename(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input FeedFilenameInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return jsonResult(FeedFilenameOutput{Filename: export.Filename(input.Title, s.cfg.MaxFilenameLength)})
}

func (s *Server) handleFeedInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input FeedInfoInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	res, err := s.loader.Load(ctx, input.URL)
	if err != nil {
		return feedErrorResult(err, nil)
	}
	return jsonResult(summary.Build(res.Feed, res.RawXML))
}

func (s *Server) handleEditItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input EditItemInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if input.Feed == nil {
		return nil, fmt.Errorf("feed is required")
	}
	if strings.TrimSpace(input.Field) == "" {
		return nil, fmt.Errorf("field is required")
	}

	feed := input.Feed.Clone()
	var err error
	switch {
	case input.Delete != nil && *input.Delete:
		err = feed.DeleteItemField(input.Item, input.Field)
	case input.Attribute != nil:
		err = feed.SetItemAttribute(input.Item, input.Field, *input.Attribute, deref(input.Value))
	default:
		err = feed.SetItemField(input.Item, input.Field, deref(input.Value))
	}
	if err != nil {
		return feedErrorResult(err, nil)
	}
	return jsonResult(FeedOutput{Feed: feed})
}

func (s *Server) handleDiscoverFeed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input DiscoverFeedInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	found, err := discover.Discover(ctx, fetch.New(s.cfg.FetchOptions()), input.URL)
	if err != nil {
		return feedErrorResult(err, nil)
	}
	return jsonResult(found)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// feedErrorResult reports a typed feed error as a tool error so the agent
// sees the {message, type} body. Untyped errors are returned as-is.
func feedErrorResult(err error, partial *models.Feed) (*mcp.CallToolResult, error) {
	ferr, ok := feederr.As(err)
	if !ok {
		return nil, err
	}
	jsonBytes, mErr := json.MarshalIndent(ErrorOutput{Error: ferr, Feed: partial}, "", "  ")
	if mErr != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", mErr)
	}
	return mcp.NewToolResultError(string(jsonBytes)), nil
}
