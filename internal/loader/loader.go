// ABOUTME: Loads a feed from a URL: validates the URL, fetches with retry and parses the XML
// ABOUTME: Also maps loader errors to the HTTP status the API responds with

package loader

import (
	"context"
	"net/http"
	"strings"

	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/fetch"
	"github.com/harper/rssedit/internal/logging"
	"github.com/harper/rssedit/internal/metrics"
	"github.com/harper/rssedit/internal/models"
	"github.com/harper/rssedit/internal/parse"
	"github.com/harper/rssedit/internal/retry"
)

// MsgMissingURL is returned for an empty URL.
const MsgMissingURL = "Please provide a valid RSS feed URL."

// Fetcher is the transport used by a Loader.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Result, error)
}

// Result is a successfully loaded feed together with the XML it came from.
type Result struct {
	Feed   *models.Feed  `json:"feed"`
	RawXML string        `json:"rawXml"`
	Fetch  *fetch.Result `json:"-"`
}

// Loader runs the URL to Feed pipeline.
type Loader struct {
	fetcher Fetcher
	retry   []retry.Option
}

// New creates a Loader. Retry options are passed to every fetch.
func New(f Fetcher, opts ...retry.Option) *Loader {
	return &Loader{fetcher: f, retry: opts}
}

// Load fetches and parses the feed at rawURL. Parse failures are returned as
// *feederr.Error; the partially parsed feed is still returned with them.
func (l *Loader) Load(ctx context.Context, rawURL string) (*Result, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, feederr.Validation(MsgMissingURL)
	}
	if !fetch.IsValidURL(rawURL) {
		return nil, feederr.InvalidURL("")
	}

	fetched, err := retry.Do(ctx, func(ctx context.Context) (*fetch.Result, error) {
		return l.fetcher.Fetch(ctx, rawURL)
	}, l.retry...)
	if err != nil {
		if _, ok := feederr.As(err); !ok {
			err = feederr.Network(err)
		}
		return nil, err
	}

	res := parse.Parse(fetched.Body)
	outcome := metrics.OutcomeOK
	if res.Err != nil {
		outcome = string(res.Err.Kind)
	}
	metrics.Parses.WithLabelValues(string(res.Feed.FeedType), outcome).Inc()

	out := &Result{Feed: res.Feed, RawXML: string(fetched.Body), Fetch: fetched}
	if res.Err != nil {
		logging.WithFields(logging.Fields{"url": rawURL, "kind": res.Err.Kind}).Info(res.Err.Message)
		return out, res.Err
	}

	logging.WithFields(logging.Fields{
		"url":   rawURL,
		"type":  res.Feed.FeedType,
		"items": len(res.Feed.Items),
	}).Info("feed loaded")
	return out, nil
}

// HTTPStatus maps an error from Load to the status code of the API
// response: 500 for upstream 5xx and transport failures, 400 otherwise.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	ferr, ok := feederr.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if ferr.Kind != feederr.KindFetch {
		return http.StatusBadRequest
	}
	switch {
	case ferr.StatusCode >= 500:
		return http.StatusInternalServerError
	case ferr.StatusCode > 0:
		return http.StatusBadRequest
	case ferr.Transport:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
