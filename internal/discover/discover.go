// ABOUTME: Feed discovery: finds the RSS/Atom feed behind a web page URL
// ABOUTME: Tries the URL as a feed, then HTML alternate links, then common feed paths

package discover

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/fetch"
	"github.com/harper/rssedit/internal/logging"
	"github.com/harper/rssedit/internal/models"
	"github.com/harper/rssedit/internal/parse"
)

// MsgNoFeedFound is returned when no strategy finds a feed.
const MsgNoFeedFound = "No RSS or Atom feed found at this URL."

// Common feed paths to probe when other discovery methods fail
var commonFeedPaths = []string{
	"/feed.xml",
	"/feed",
	"/rss.xml",
	"/rss",
	"/atom.xml",
	"/atom",
	"/index.xml",
	"/feed/rss",
	"/feed/atom",
	"/feeds/posts/default",
}

// How a feed was found.
const (
	ViaDirect = "direct"
	ViaLink   = "link"
	ViaProbe  = "probe"
)

// Fetcher performs a single GET.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Result, error)
}

// Found is a feed located by Discover.
type Found struct {
	URL      string          `json:"url"`
	Title    string          `json:"title,omitempty"`
	FeedType models.FeedType `json:"feedType"`
	Via      string          `json:"via"`
}

// Candidate is a feed link declared by an HTML page.
type Candidate struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Discover finds a feed for rawURL. Errors fetching rawURL itself are
// returned as-is; an exhausted search is a VALIDATION_ERROR.
func Discover(ctx context.Context, f Fetcher, rawURL string) (*Found, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !fetch.IsValidURL(rawURL) {
		return nil, feederr.InvalidURL("")
	}
	base, _ := url.Parse(rawURL)

	found, body, err := tryDirect(ctx, f, rawURL)
	if err != nil {
		return nil, err
	}
	if found != nil {
		found.Via = ViaDirect
		return found, nil
	}

	for _, c := range Links(body, base) {
		verified, _, err := tryDirect(ctx, f, c.URL)
		if err != nil || verified == nil {
			logging.WithFields(logging.Fields{"url": c.URL}).Debug("declared feed link is not a feed")
			continue
		}
		if verified.Title == "" {
			verified.Title = c.Title
		}
		verified.Via = ViaLink
		return verified, nil
	}

	probeBase := &url.URL{Scheme: base.Scheme, Host: base.Host}
	for _, path := range commonFeedPaths {
		probe := probeBase.String() + path
		verified, _, err := tryDirect(ctx, f, probe)
		if err == nil && verified != nil {
			verified.Via = ViaProbe
			return verified, nil
		}
	}

	return nil, feederr.Validation(MsgNoFeedFound)
}

// tryDirect fetches feedURL and reports it as found when it parses as a
// feed. The body is returned either way for HTML link extraction.
func tryDirect(ctx context.Context, f Fetcher, feedURL string) (*Found, []byte, error) {
	res, err := f.Fetch(ctx, feedURL)
	if err != nil {
		return nil, nil, err
	}

	parsed := parse.Parse(res.Body)
	if parsed.Err != nil {
		return nil, res.Body, nil
	}
	return &Found{
		URL:      feedURL,
		Title:    parsed.Feed.Title(),
		FeedType: parsed.Feed.FeedType,
	}, res.Body, nil
}

// Links returns the feed URLs declared by <link rel="alternate"> elements
// in an HTML page, resolved against base.
func Links(htmlBody []byte, base *url.URL) []Candidate {
	doc, err := html.Parse(bytes.NewReader(htmlBody))
	if err != nil {
		return nil
	}

	var out []Candidate
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			var rel, linkType, href, title string
			for _, attr := range n.Attr {
				switch strings.ToLower(attr.Key) {
				case "rel":
					rel = attr.Val
				case "type":
					linkType = attr.Val
				case "href":
					href = strings.TrimSpace(attr.Val)
				case "title":
					title = attr.Val
				}
			}
			if hasToken(rel, "alternate") && isFeedContentType(linkType) && href != "" {
				if resolved, err := resolve(href, base); err == nil {
					out = append(out, Candidate{URL: resolved, Title: title})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func hasToken(rel, token string) bool {
	for _, f := range strings.Fields(strings.ToLower(rel)) {
		if f == token {
			return true
		}
	}
	return false
}

func resolve(href string, base *url.URL) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// isFeedContentType checks if the content type indicates a feed
func isFeedContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "rss") ||
		strings.Contains(contentType, "atom") ||
		strings.Contains(contentType, "xml")
}
