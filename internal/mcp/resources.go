// ABOUTME: MCP resource providers for rssedit
// ABOUTME: Exposes the effective configuration and the feed error catalogue as read-only views

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/rssedit/internal/feederr"
)

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Count       int       `json:"count"`
	ResourceURI string    `json:"resource_uri"`
}

const (
	configURI = "rssedit://config"
	errorsURI = "rssedit://errors"
)

func (s *Server) registerResources() {
	s.registerConfigResource()
	s.registerErrorsResource()
}

func (s *Server) registerConfigResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         configURI,
			Name:        "Configuration",
			Description: "Effective fetch, retry and export settings: timeout, user agent, response size cap, retry attempts and delay, output directory",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			data := map[string]interface{}{
				"timeout_seconds":     s.cfg.Timeout().Seconds(),
				"user_agent":          s.cfg.FetchOptions().UserAgent,
				"max_response_bytes":  s.cfg.FetchOptions().MaxBytes,
				"max_attempts":        s.cfg.MaxAttempts,
				"base_delay_ms":       s.cfg.BaseDelay().Milliseconds(),
				"output_dir":          s.cfg.GetOutputDir(),
				"max_filename_length": s.cfg.MaxFilenameLength,
			}
			return marshalResource(request.Params.URI, data, 1, map[string]string{
				"errors": errorsURI,
			})
		},
	)
}

func (s *Server) registerErrorsResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         errorsURI,
			Name:        "Error Types",
			Description: "The error types feed tools can report, with the conditions that produce each",
			MIMEType:    "application/json",
		},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			catalogue := []map[string]string{
				{"type": string(feederr.KindValidation), "when": "missing URL, blocked private address, XML without items or entries, bad item index"},
				{"type": string(feederr.KindInvalidURL), "when": "URL is not absolute http(s)"},
				{"type": string(feederr.KindFetch), "when": "upstream non-2xx status, timeout, empty body, transport failure (retried up to max_attempts)"},
				{"type": string(feederr.KindParse), "when": "malformed XML or a root that is neither RSS nor Atom"},
				{"type": string(feederr.KindGeneration), "when": "feed object could not be serialized"},
			}
			return marshalResource(request.Params.URI, catalogue, len(catalogue), map[string]string{
				"config": configURI,
			})
		},
	)
}

func marshalResource(uri string, data interface{}, count int, links map[string]string) ([]mcp.ResourceContents, error) {
	response := ResourceData{
		Metadata: ResourceMetadata{
			Timestamp:   time.Now(),
			Count:       count,
			ResourceURI: uri,
		},
		Data:  data,
		Links: links,
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
