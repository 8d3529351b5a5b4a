// ABOUTME: Resolves a command-line feed source to a parsed feed
// ABOUTME: A source is an http(s) URL loaded with retry, a file path, or - for stdin

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harper/rssedit/internal/models"
	"github.com/harper/rssedit/internal/parse"
)

// loadSource returns the parsed feed and its raw XML. When parsing fails
// the partial feed is still returned alongside the error.
func loadSource(ctx context.Context, src string, stdin io.Reader) (*models.Feed, string, error) {
	if isURL(src) {
		res, err := feedLoader.Load(ctx, src)
		if res == nil {
			return nil, "", err
		}
		return res.Feed, res.RawXML, err
	}

	var (
		data []byte
		err  error
	)
	if src == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", src, err)
	}

	res := parse.Parse(data)
	if res.Err != nil {
		return res.Feed, string(data), res.Err
	}
	return res.Feed, string(data), nil
}

func isURL(src string) bool {
	lower := strings.ToLower(strings.TrimSpace(src))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
