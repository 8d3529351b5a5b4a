// ABOUTME: Tests for feed summaries
// ABOUTME: Parses inline RSS and Atom fixtures and checks counts, metadata and date range

package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/rssedit/internal/models"
	"github.com/harper/rssedit/internal/parse"
)

const rssXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test RSS Feed</title>
    <link>https://example.com</link>
    <description>A test RSS feed</description>
    <language>en-us</language>
    <item>
      <title>First Post</title>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
    </item>
    <item>
      <title>Second Post</title>
      <link>https://example.com/2</link>
      <pubDate>Wed, 04 Jan 2006 15:04:05 GMT</pubDate>
    </item>
    <item>
      <title>Undated</title>
    </item>
  </channel>
</rss>`

const atomXML = `<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom</title>
  <subtitle>Sub</subtitle>
  <link href="https://example.org/"/>
  <entry><title>E</title><updated>2024-03-01T10:00:00Z</updated></entry>
</feed>`

func TestBuild_RSS(t *testing.T) {
	res := parse.ParseString(rssXML)
	require.Nil(t, res.Err)

	s := Build(res.Feed, rssXML)
	assert.Equal(t, models.FeedTypeRSS, s.FeedType)
	assert.Equal(t, "2.0", s.Version)
	assert.Equal(t, 3, s.ItemCount)
	assert.Equal(t, []string{"link", "pubDate", "title"}, s.Fields)
	assert.Equal(t, 3, s.FieldCount)
	assert.Equal(t, "Test RSS Feed", s.Title)
	assert.Equal(t, "A test RSS feed", s.Description)
	assert.Equal(t, "https://example.com", s.Link)
	assert.Equal(t, "en-us", s.Language)

	require.NotNil(t, s.Newest)
	require.NotNil(t, s.Oldest)
	assert.Equal(t, time.Date(2006, 1, 4, 15, 4, 5, 0, time.UTC), s.Newest.UTC())
	assert.Equal(t, time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC), s.Oldest.UTC())
}

func TestBuild_Atom(t *testing.T) {
	res := parse.ParseString(atomXML)
	require.Nil(t, res.Err)

	s := Build(res.Feed, atomXML)
	assert.Equal(t, models.FeedTypeAtom, s.FeedType)
	assert.Equal(t, "1.0", s.Version)
	assert.Equal(t, "Sub", s.Description)
	assert.Equal(t, "https://example.org/", s.Link)
	require.NotNil(t, s.Newest)
	assert.Equal(t, s.Newest, s.Oldest)
}

func TestBuild_WithoutRaw(t *testing.T) {
	res := parse.ParseString(rssXML)
	s := Build(res.Feed, "")
	assert.Empty(t, s.Version)
	assert.Nil(t, s.Newest)
	assert.Equal(t, 3, s.ItemCount)
}

func TestBuild_UnreadableRaw(t *testing.T) {
	s := Build(models.NewFeed(models.FeedTypeRSS), "not a feed")
	assert.Empty(t, s.Version)
	assert.Zero(t, s.ItemCount)
	assert.Empty(t, s.Fields)
}

func TestBuildAt_Recent(t *testing.T) {
	xml := `<rss version="2.0"><channel><title>R</title>
<item><title>a</title><pubDate>Wed, 13 Mar 2024 09:00:00 GMT</pubDate></item>
<item><title>b</title><pubDate>Mon, 11 Mar 2024 09:00:00 GMT</pubDate></item>
<item><title>c</title><pubDate>Sat, 02 Mar 2024 09:00:00 GMT</pubDate></item>
<item><title>d</title><pubDate>Tue, 20 Feb 2024 09:00:00 GMT</pubDate></item>
</channel></rss>`
	res := parse.ParseString(xml)
	require.Nil(t, res.Err)

	now := time.Date(2024, time.March, 13, 15, 0, 0, 0, time.UTC)
	s := BuildAt(res.Feed, xml, now)
	assert.Equal(t, map[string]int{"today": 1, "week": 2, "month": 3}, s.Recent)
}

func TestBuildAt_NoRecent(t *testing.T) {
	res := parse.ParseString(rssXML)
	s := BuildAt(res.Feed, rssXML, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC))
	assert.Nil(t, s.Recent)
}

func TestBuild_HTMLDescription(t *testing.T) {
	xml := `<rss version="2.0"><channel><title>H</title>
<description>&lt;p&gt;News &amp;amp; &lt;em&gt;views&lt;/em&gt;&lt;/p&gt;</description>
<item><title>a</title></item></channel></rss>`
	res := parse.ParseString(xml)
	require.Nil(t, res.Err)
	assert.Equal(t, "News & views", Build(res.Feed, "").Description)
}
