// ABOUTME: Tests for the URL to Feed loading pipeline
// ABOUTME: Stubs the transport to exercise validation, retry and parse outcomes

package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/fetch"
	"github.com/harper/rssedit/internal/models"
	"github.com/harper/rssedit/internal/retry"
)

const validRSS = `<rss version="2.0"><channel><title>T</title><item><title>Item 1</title></item></channel></rss>`

type stubFetcher struct {
	calls     int
	responses []stubResponse
}

type stubResponse struct {
	body string
	err  error
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) (*fetch.Result, error) {
	r := s.responses[min(s.calls, len(s.responses)-1)]
	s.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &fetch.Result{Body: []byte(r.body)}, nil
}

func fastRetry() retry.Option {
	return retry.WithBaseDelay(time.Millisecond)
}

func TestLoad_Success(t *testing.T) {
	f := &stubFetcher{responses: []stubResponse{{body: validRSS}}}
	res, err := New(f, fastRetry()).Load(context.Background(), "  https://example.com/feed  ")
	require.NoError(t, err)
	assert.Equal(t, models.FeedTypeRSS, res.Feed.FeedType)
	assert.Equal(t, "Item 1", res.Feed.Items[0].Text("title"))
	assert.Equal(t, validRSS, res.RawXML)
}

func TestLoad_URLValidation(t *testing.T) {
	f := &stubFetcher{responses: []stubResponse{{body: validRSS}}}
	l := New(f, fastRetry())

	_, err := l.Load(context.Background(), "   ")
	assert.True(t, feederr.Is(err, feederr.KindValidation))
	assert.Equal(t, MsgMissingURL, err.Error())

	_, err = l.Load(context.Background(), "ftp://example.com/feed")
	assert.True(t, feederr.Is(err, feederr.KindInvalidURL))
	assert.Equal(t, "Please enter a valid HTTP or HTTPS URL.", err.Error())

	assert.Zero(t, f.calls)
}

func TestLoad_RetriesTransientFailures(t *testing.T) {
	f := &stubFetcher{responses: []stubResponse{
		{err: feederr.HTTPStatus(503, "503 Service Unavailable")},
		{err: feederr.Fetch(fetch.MsgTimeout)},
		{body: validRSS},
	}}
	res, err := New(f, fastRetry()).Load(context.Background(), "https://example.com/feed")
	require.NoError(t, err)
	assert.Len(t, res.Feed.Items, 1)
	assert.Equal(t, 3, f.calls)
}

func TestLoad_DoesNotRetryClientErrors(t *testing.T) {
	f := &stubFetcher{responses: []stubResponse{{err: feederr.HTTPStatus(404, "404 Not Found")}}}
	_, err := New(f, fastRetry()).Load(context.Background(), "https://example.com/feed")
	require.Error(t, err)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestLoad_ExhaustedRetries(t *testing.T) {
	f := &stubFetcher{responses: []stubResponse{{err: feederr.HTTPStatus(502, "502 Bad Gateway")}}}
	_, err := New(f, fastRetry()).Load(context.Background(), "https://example.com/feed")
	require.Error(t, err)
	assert.Equal(t, 3, f.calls)
	assert.Equal(t, "Failed to fetch RSS feed: 502 Bad Gateway (after 3 attempts)", err.Error())
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestLoad_WrapsUntypedErrors(t *testing.T) {
	f := &stubFetcher{responses: []stubResponse{{err: errors.New("weird")}}}
	_, err := New(f, fastRetry()).Load(context.Background(), "https://example.com/feed")
	ferr, ok := feederr.As(err)
	require.True(t, ok)
	assert.Equal(t, feederr.KindFetch, ferr.Kind)
	assert.Equal(t, "Network error: weird", ferr.Message)
	assert.Equal(t, 1, f.calls)
}

func TestLoad_ParseErrorKeepsPartialFeed(t *testing.T) {
	f := &stubFetcher{responses: []stubResponse{{body: `<rss><channel><title>Empty</title></channel></rss>`}}}
	res, err := New(f, fastRetry()).Load(context.Background(), "https://example.com/feed")
	require.Error(t, err)
	assert.True(t, feederr.Is(err, feederr.KindValidation))
	require.NotNil(t, res)
	assert.Equal(t, "Empty", res.Feed.Title())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestLoad_RealFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(validRSS))
	}))
	defer server.Close()

	res, err := New(fetch.New(fetch.Options{}), fastRetry()).Load(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "T", res.Feed.Title())
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(feederr.Validation("x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(feederr.Parse("x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(feederr.Fetch(fetch.MsgTimeout)))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(feederr.HTTPStatus(403, "403 Forbidden")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(feederr.HTTPStatus(500, "500 Internal Server Error")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(feederr.Network(errors.New("reset"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
