// ABOUTME: HTTP fetcher for feed XML with fixed headers, timeout, size limit and SSRF guard
// ABOUTME: Failures are returned as typed FETCH_ERROR values carrying the upstream status code

package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/logging"
	"github.com/harper/rssedit/internal/metrics"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; RSS Reader)"
	DefaultAccept    = "application/rss+xml, application/xml, text/xml, */*"
	MaxResponseSize  = 10 * 1024 * 1024 // 10MB
)

// Error messages for fetch failures that carry no upstream status.
const (
	MsgTimeout      = "Request timeout. The RSS feed took too long to respond."
	MsgEmptyContent = "RSS feed returned empty content."
	MsgPrivateIP    = "Access to private network addresses is not allowed."
)

// Options configures a Fetcher. Zero fields take the defaults above.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Accept       string
	MaxBytes     int64
	AllowPrivate bool // skip the private address check
}

// Result contains the response from an HTTP fetch operation.
type Result struct {
	Body         []byte
	ContentType  string
	ETag         string
	LastModified string
}

// Fetcher retrieves feed documents over HTTP.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// New creates a Fetcher.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Accept == "" {
		opts.Accept = DefaultAccept
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = MaxResponseSize
	}
	return &Fetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
}

// IsValidURL reports whether raw, once trimmed, is an absolute http or https
// URL with a host.
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// isPrivateIP checks if an IP address is in a private range (excluding loopback for tests).
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() {
		return false
	}
	return ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}

// Fetch performs one GET of rawURL. Non-2xx responses, transport failures,
// timeouts and whitespace-only bodies are FETCH_ERROR values.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (res *Result, err error) {
	started := time.Now()
	defer func() {
		metrics.ObserveFetch(metrics.Outcome(string(feederr.KindOf(err))), started)
	}()

	rawURL = strings.TrimSpace(rawURL)
	if !IsValidURL(rawURL) {
		return nil, feederr.InvalidURL("")
	}
	parsed, _ := url.Parse(rawURL)

	if !f.opts.AllowPrivate {
		if err := checkHost(ctx, parsed.Hostname()); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, feederr.InvalidURL("")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", f.opts.Accept)

	logging.WithFields(logging.Fields{"url": rawURL}).Debug("fetching feed")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, feederr.HTTPStatus(resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBytes+1))
	if err != nil {
		return nil, classify(err)
	}
	if int64(len(body)) > f.opts.MaxBytes {
		return nil, &feederr.Error{
			Kind:       feederr.KindFetch,
			Message:    fmt.Sprintf("RSS feed is too large (exceeds %d bytes).", f.opts.MaxBytes),
			StatusCode: http.StatusRequestEntityTooLarge,
		}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, feederr.Fetch(MsgEmptyContent)
	}

	return &Result{
		Body:         body,
		ContentType:  resp.Header.Get("Content-Type"),
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}, nil
}

func checkHost(ctx context.Context, host string) error {
	if ip := net.ParseIP(host); ip != nil {
		if isPrivateIP(ip) {
			return feederr.Validation(MsgPrivateIP)
		}
		return nil
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		// resolution failures surface from the request itself
		return nil
	}
	for _, addr := range addrs {
		if isPrivateIP(addr.IP) {
			return feederr.Validation(MsgPrivateIP)
		}
	}
	return nil
}

func classify(err error) *feederr.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return feederr.Fetch(MsgTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return feederr.Fetch(MsgTimeout)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return feederr.Network(err)
}
