// ABOUTME: Derives download filenames from feed titles and writes serialized feeds to disk
// ABOUTME: Serialization and write failures surface as GENERATION_ERROR

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/generate"
	"github.com/harper/rssedit/internal/metrics"
	"github.com/harper/rssedit/internal/models"
)

const (
	DefaultMaxLength = 100
	fallbackName     = "feed"
)

// Sanitize lowercases name and replaces every rune outside [a-z0-9] with
// '_', truncating to maxLen runes. An empty result becomes "feed".
func Sanitize(name string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}

	var b strings.Builder
	n := 0
	for _, r := range name {
		if n == maxLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
		n++
	}

	if b.Len() == 0 {
		return fallbackName
	}
	return b.String()
}

// Filename returns the download filename for a feed title.
func Filename(title string, maxLen int) string {
	if title == "" {
		title = fallbackName
	}
	return Sanitize(title, maxLen) + ".xml"
}

// Render serializes feed, mapping failures to GENERATION_ERROR.
func Render(feed *models.Feed) (string, error) {
	xml, err := generate.Serialize(feed)
	if err != nil {
		metrics.Generations.WithLabelValues(string(feederr.KindGeneration)).Inc()
		return "", feederr.Generation(fmt.Sprintf("Failed to generate XML: %v", err))
	}
	metrics.Generations.WithLabelValues(metrics.OutcomeOK).Inc()
	return xml, nil
}

// WriteFile serializes feed into dir under its derived filename and returns
// the written path.
func WriteFile(dir string, feed *models.Feed, maxLen int) (string, error) {
	xml, err := Render(feed)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", feederr.Generation(fmt.Sprintf("Failed to create output directory: %v", err))
	}

	path := filepath.Join(dir, Filename(feed.Title(), maxLen))
	if err := os.WriteFile(path, []byte(xml), 0644); err != nil {
		return "", feederr.Generation(fmt.Sprintf("Failed to write XML file: %v", err))
	}
	return path, nil
}
