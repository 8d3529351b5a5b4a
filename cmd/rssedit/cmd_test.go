// ABOUTME: Tests for CLI commands
// ABOUTME: Tests command structure, source loading, output helpers and batch conversion

package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/harper/rssedit/internal/config"
	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/fetch"
	"github.com/harper/rssedit/internal/loader"
	"github.com/harper/rssedit/internal/opml"
	"github.com/harper/rssedit/internal/retry"
)

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Sample Feed</title><link>https://example.com</link>
<item><title>Hello</title><link>https://example.com/hello</link><description>&lt;p&gt;Hi there&lt;/p&gt;</description></item>
<item><title>World</title><category>news</category></item>
</channel></rss>`

func setupCLI(t *testing.T) {
	t.Helper()
	color.NoColor = true
	cfg = config.Default()
	feedLoader = loader.New(fetch.New(cfg.FetchOptions()),
		retry.WithMaxAttempts(1),
		retry.WithBaseDelay(time.Millisecond),
	)
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.xml")
	if err := os.WriteFile(path, []byte(sampleRSS), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "rssedit" {
		t.Errorf("expected Use to be 'rssedit', got %q", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected root command to have a short description")
	}
	for _, name := range []string{"config", "log-level", "log-json"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected --%s flag to exist", name)
		}
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"fetch", "parse", "show", "set", "info", "batch", "serve", "mcp", "version", "discover"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %q subcommand", name)
		}
	}
}

func TestSetCommandFlags(t *testing.T) {
	for _, name := range []string{"item", "field", "value", "attr", "delete", "out"} {
		if setCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag to exist", name)
		}
	}
}

func TestBatchCommandFlags(t *testing.T) {
	flag := batchCmd.Flags().Lookup("concurrency")
	if flag == nil {
		t.Fatal("expected --concurrency flag to exist")
	}
	if flag.DefValue != "4" {
		t.Errorf("expected default concurrency 4, got %s", flag.DefValue)
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"https://example.com/feed", true},
		{"HTTP://example.com", true},
		{"feed.xml", false},
		{"-", false},
		{"ftp://example.com/feed", false},
	}
	for _, tt := range tests {
		if got := isURL(tt.src); got != tt.want {
			t.Errorf("isURL(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestLoadSource_File(t *testing.T) {
	setupCLI(t)

	feed, raw, err := loadSource(context.Background(), writeSample(t), nil)
	if err != nil {
		t.Fatalf("loadSource: %v", err)
	}
	if raw != sampleRSS {
		t.Error("expected raw XML to be returned")
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(feed.Items))
	}
}

func TestLoadSource_Stdin(t *testing.T) {
	setupCLI(t)

	feed, _, err := loadSource(context.Background(), "-", strings.NewReader(sampleRSS))
	if err != nil {
		t.Fatalf("loadSource: %v", err)
	}
	if feed.Title() != "Sample Feed" {
		t.Errorf("expected title 'Sample Feed', got %q", feed.Title())
	}
}

func TestLoadSource_PartialFeed(t *testing.T) {
	setupCLI(t)

	xml := `<rss><channel><title>Empty</title></channel></rss>`
	feed, _, err := loadSource(context.Background(), "-", strings.NewReader(xml))
	if !feederr.Is(err, feederr.KindValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if feed == nil || feed.Title() != "Empty" {
		t.Error("expected partial feed with channel title")
	}
}

func TestLoadSource_MissingFile(t *testing.T) {
	setupCLI(t)

	_, _, err := loadSource(context.Background(), filepath.Join(t.TempDir(), "nope.xml"), nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, ok := feederr.As(err); ok {
		t.Error("file read errors should not be feed errors")
	}
}

func TestPrintFeed(t *testing.T) {
	setupCLI(t)

	feed, _, err := loadSource(context.Background(), writeSample(t), nil)
	if err != nil {
		t.Fatalf("loadSource: %v", err)
	}

	var buf bytes.Buffer
	printFeed(&buf, feed)
	out := buf.String()

	for _, want := range []string{"Sample Feed", "(rss, 2 items)", "Hello", "World", "category: news", "description: Hi there"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPrintError(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printError(&buf, feederr.InvalidURL(""))
	if !strings.HasPrefix(buf.String(), "INVALID_URL ") {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	printError(&buf, errors.New("boom"))
	if buf.String() != "error boom\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRunBatch(t *testing.T) {
	setupCLI(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/good.xml" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer upstream.Close()

	outDir := t.TempDir()
	feeds := []opml.Feed{
		{URL: upstream.URL + "/good.xml", Title: "Good"},
		{URL: upstream.URL + "/missing.xml", Title: "Missing"},
	}

	results := runBatch(context.Background(), feeds, outDir, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].err != nil {
		t.Fatalf("expected first feed to convert, got %v", results[0].err)
	}
	if filepath.Base(results[0].path) != "sample_feed.xml" {
		t.Errorf("unexpected output path %s", results[0].path)
	}
	if _, err := os.Stat(results[0].path); err != nil {
		t.Errorf("expected output file: %v", err)
	}

	if !feederr.Is(results[1].err, feederr.KindFetch) {
		t.Errorf("expected FETCH_ERROR for missing feed, got %v", results[1].err)
	}
	if results[1].feed.Title != "Missing" {
		t.Error("expected results to keep input order")
	}
}

func TestWriteFeed(t *testing.T) {
	setupCLI(t)

	feed, _, err := loadSource(context.Background(), writeSample(t), nil)
	if err != nil {
		t.Fatalf("loadSource: %v", err)
	}
	if err := feed.SetItemField(1, "title", "Changed"); err != nil {
		t.Fatalf("SetItemField: %v", err)
	}

	dir := t.TempDir()
	var buf bytes.Buffer
	if err := writeFeed(&buf, dir, feed); err != nil {
		t.Fatalf("writeFeed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sample_feed.xml"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "<title>Changed</title>") {
		t.Errorf("expected edited title in output:\n%s", data)
	}
	if !strings.Contains(buf.String(), "wrote") {
		t.Errorf("expected confirmation, got %q", buf.String())
	}
}

func TestExecuteParse(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	color.NoColor = true

	outDir := t.TempDir()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"parse", writeSample(t), "--out", outDir})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := Execute(); err != nil {
		t.Fatalf("Execute: %v (stderr: %s)", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Sample Feed") {
		t.Errorf("expected feed listing, got %s", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(outDir, "sample_feed.xml")); err != nil {
		t.Errorf("expected regenerated file: %v", err)
	}
}
