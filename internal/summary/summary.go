// ABOUTME: Builds the statistics and metadata view of a loaded feed
// ABOUTME: Uses gofeed on the raw XML for the feed version and item publication range

package summary

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/harper/rssedit/internal/content"
	"github.com/harper/rssedit/internal/field"
	"github.com/harper/rssedit/internal/models"
	"github.com/harper/rssedit/internal/timeutil"
)

// Summary describes a feed for display.
type Summary struct {
	FeedType    models.FeedType `json:"feedType"`
	Version     string          `json:"version,omitempty"`
	ItemCount   int             `json:"itemCount"`
	FieldCount  int             `json:"fieldCount"`
	Fields      []string        `json:"fields"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Link        string          `json:"link,omitempty"`
	Language    string          `json:"language,omitempty"`
	Newest      *time.Time      `json:"newest,omitempty"`
	Oldest      *time.Time      `json:"oldest,omitempty"`
	// Recent counts items published since the start of each period in
	// timeutil.Periods.
	Recent map[string]int `json:"recent,omitempty"`
}

// Build summarises feed. raw is the XML the feed was parsed from and may be
// empty; when gofeed cannot read it the version and dates are left unset.
func Build(feed *models.Feed, raw string) Summary {
	return BuildAt(feed, raw, time.Now())
}

// BuildAt is Build with recent-item periods measured from now.
func BuildAt(feed *models.Feed, raw string, now time.Time) Summary {
	s := Summary{
		FeedType:    feed.FeedType,
		ItemCount:   len(feed.Items),
		Fields:      feed.Fields(),
		Title:       feed.Title(),
		Language:    feed.ChannelFields.Text("language"),
		Description: content.StripHTML(firstText(feed.ChannelFields, "description", "subtitle")),
	}
	s.FieldCount = len(s.Fields)

	link, _ := feed.ChannelFields.Get("link")
	s.Link = field.LinkURL(link)

	if strings.TrimSpace(raw) == "" {
		return s
	}
	parsed, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		return s
	}
	s.Version = parsed.FeedVersion
	if s.Language == "" {
		s.Language = parsed.Language
	}

	for _, item := range parsed.Items {
		t := item.PublishedParsed
		if t == nil {
			t = item.UpdatedParsed
		}
		if t == nil {
			continue
		}
		if s.Newest == nil || t.After(*s.Newest) {
			s.Newest = t
		}
		if s.Oldest == nil || t.Before(*s.Oldest) {
			s.Oldest = t
		}
		for _, period := range timeutil.Periods {
			start, _ := timeutil.ParsePeriod(period, now)
			if !t.Before(start) {
				if s.Recent == nil {
					s.Recent = make(map[string]int, len(timeutil.Periods))
				}
				s.Recent[period]++
			}
		}
	}
	return s
}

func firstText(rec *field.Record, keys ...string) string {
	for _, k := range keys {
		if text := rec.Text(k); text != "" {
			return text
		}
	}
	return ""
}
