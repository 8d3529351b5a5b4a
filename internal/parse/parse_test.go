// ABOUTME: Test suite for RSS/Atom detection and extraction into the Feed model
// ABOUTME: Validates format resolution, empty-feed validation and XML round trips

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/field"
	"github.com/harper/rssedit/internal/generate"
	"github.com/harper/rssedit/internal/models"
	"github.com/harper/rssedit/internal/xmltree"
)

const rss20XML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <title>Test RSS Feed</title>
    <link>https://example.com</link>
    <description>A test RSS feed</description>
    <item>
      <guid isPermaLink="true">https://example.com/post/1</guid>
      <title>First Post</title>
      <link>https://example.com/post/1</link>
      <dc:creator>John Doe</dc:creator>
      <pubDate>Mon, 02 Jan 2006 15:04:05 MST</pubDate>
      <description>First post &amp; more</description>
      <category>tech</category>
      <category>golang</category>
      <media:content url="https://example.com/a.jpg" medium="image"/>
    </item>
    <item>
      <title>Second Post</title>
      <link>https://example.com/post/2</link>
      <description>   </description>
    </item>
  </channel>
</rss>`

const atomXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2006-01-02T15:04:05Z</updated>
  <entry>
    <id>https://example.com/entry/1</id>
    <title>First Entry</title>
    <link href="https://example.com/entry/1"/>
    <author>
      <name>Jane Smith</name>
    </author>
    <content type="html">First entry content</content>
  </entry>
</feed>`

func TestParse_RSS(t *testing.T) {
	res := ParseString(rss20XML)
	require.Nil(t, res.Err)

	feed := res.Feed
	assert.Equal(t, models.FeedTypeRSS, feed.FeedType)
	assert.Equal(t, "Test RSS Feed", feed.Title())
	assert.Equal(t, []string{"title", "link", "description"}, feed.ChannelFields.Keys())
	require.Len(t, feed.Items, 2)

	first := feed.Items[0]
	assert.Equal(t, "First Post", first.Text("title"))
	assert.Equal(t, "John Doe", first.Text("creator"))
	assert.Equal(t, "First post & more", first.Text("description"))
	assert.Equal(t, "golang", first.Text("category"))

	guid, ok := first.Get("guid")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/post/1", guid.Text)
	assert.Equal(t, "true", guid.Attr("isPermaLink"))

	media, ok := first.Get("content")
	require.True(t, ok)
	assert.Equal(t, "", media.Text)
	assert.Equal(t, map[string]string{"url": "https://example.com/a.jpg", "medium": "image"}, media.Attributes)

	_, ok = feed.Items[1].Get("description")
	assert.False(t, ok, "whitespace-only leaf should be omitted")
}

func TestParse_SingleItem(t *testing.T) {
	res := ParseString(`<rss version="2.0"><channel><item><title>Item 1</title></item></channel></rss>`)
	require.Nil(t, res.Err)
	assert.Equal(t, models.FeedTypeRSS, res.Feed.FeedType)
	require.Len(t, res.Feed.Items, 1)
	assert.Equal(t, "Item 1", res.Feed.Items[0].Text("title"))
}

func TestParse_Atom(t *testing.T) {
	res := ParseString(atomXML)
	require.Nil(t, res.Err)

	feed := res.Feed
	assert.Equal(t, models.FeedTypeAtom, feed.FeedType)
	assert.Equal(t, "Test Atom Feed", feed.Title())
	link, _ := feed.ChannelFields.Get("link")
	assert.Equal(t, "https://example.com", link.Attr("href"))

	require.Len(t, feed.Items, 1)
	entry := feed.Items[0]
	assert.Equal(t, "Jane Smith", entry.Text("author"))
	content, _ := entry.Get("content")
	assert.Equal(t, "First entry content", content.Text)
	assert.Equal(t, "html", content.Attr("type"))
}

func TestParse_RSSWithoutItems(t *testing.T) {
	res := ParseString(`<rss version="2.0"><channel><title>Empty</title></channel></rss>`)
	require.NotNil(t, res.Err)
	assert.Equal(t, feederr.KindValidation, res.Err.Kind)
	assert.Contains(t, res.Err.Message, "no items")
	assert.Equal(t, "Empty", res.Feed.Title())
	assert.NotNil(t, res.Feed.Items)
	assert.Empty(t, res.Feed.Items)
}

func TestParse_AtomWithoutEntries(t *testing.T) {
	res := ParseString(`<feed xmlns="http://www.w3.org/2005/Atom"><title>T</title></feed>`)
	require.NotNil(t, res.Err)
	assert.Equal(t, feederr.KindValidation, res.Err.Kind)
	assert.Contains(t, res.Err.Message, "no entries")
	assert.Equal(t, models.FeedTypeAtom, res.Feed.FeedType)
	assert.Equal(t, "T", res.Feed.ChannelFields.Text("title"))
}

func TestParse_Unrecognized(t *testing.T) {
	res := ParseString(`<html><body>nope</body></html>`)
	require.NotNil(t, res.Err)
	assert.Equal(t, feederr.KindValidation, res.Err.Kind)
	assert.Equal(t, MsgUnrecognized, res.Err.Message)
	assert.Equal(t, models.FeedTypeRSS, res.Feed.FeedType)
	assert.Zero(t, res.Feed.ChannelFields.Len())
}

func TestParse_Malformed(t *testing.T) {
	for _, input := range []string{
		"<invalid><unclosed>",
		"<a>&bogus;</a>",
		"not xml at all <",
		"<rss><channel><item><title>x</title></item></channel></rss><extra/>",
		"<rss><channel><item><title>x</title></item></channel></rss>garbage",
	} {
		t.Run(input, func(t *testing.T) {
			var res Result
			assert.NotPanics(t, func() { res = ParseString(input) })
			require.NotNil(t, res.Err)
			assert.Contains(t, []feederr.Kind{feederr.KindParse, feederr.KindValidation}, res.Err.Kind)
			assert.NotNil(t, res.Feed)
		})
	}
}

func TestParse_ParserErrorElement(t *testing.T) {
	res := ParseString(`<rss><parsererror>line 1</parsererror><channel><item><title>x</title></item></channel></rss>`)
	require.NotNil(t, res.Err)
	assert.Equal(t, feederr.KindParse, res.Err.Kind)
	assert.Equal(t, MsgInvalidXML, res.Err.Message)
}

func TestParse_ChannelTakesPriorityOverFeed(t *testing.T) {
	res := ParseString(`<feed><channel><item><title>x</title></item></channel><entry><title>y</title></entry></feed>`)
	require.Nil(t, res.Err)
	assert.Equal(t, models.FeedTypeRSS, res.Feed.FeedType)
}

func TestParse_NestedFeedIsNotAtom(t *testing.T) {
	res := ParseString(`<wrapper><feed><entry><title>y</title></entry></feed></wrapper>`)
	require.NotNil(t, res.Err)
	assert.Equal(t, MsgUnrecognized, res.Err.Message)
}

func TestParse_ChannelItemKeyNotMetadata(t *testing.T) {
	res := ParseString(rss20XML)
	_, ok := res.Feed.ChannelFields.Get("item")
	assert.False(t, ok)
}

type panicNode struct{}

func (panicNode) Name() string          { panic("boom") }
func (panicNode) Attrs() []xmltree.Attr { return nil }
func (panicNode) Text() string          { return "" }
func (panicNode) Children() []xmltree.Node {
	return nil
}

func TestResolve_NilRoot(t *testing.T) {
	res := Resolve(nil)
	require.NotNil(t, res.Err)
	assert.Equal(t, MsgUnrecognized, res.Err.Message)
}

func TestResolve_RecoversPanic(t *testing.T) {
	var res Result
	require.NotPanics(t, func() { res = Resolve(panicNode{}) })
	require.NotNil(t, res.Err)
	assert.Equal(t, feederr.KindParse, res.Err.Kind)
	assert.Equal(t, "boom", res.Err.Message)
	assert.NotNil(t, res.Feed)
}

func TestRoundTrip(t *testing.T) {
	for _, feedType := range []models.FeedType{models.FeedTypeRSS, models.FeedTypeAtom} {
		t.Run(string(feedType), func(t *testing.T) {
			feed := models.NewFeed(feedType)
			feed.ChannelFields.Set("title", field.Text(`Tom & Jerry's "Feed"`))
			feed.ChannelFields.Set("link", field.WithAttributes("", map[string]string{"href": "https://x.com/?a=1&b=2"}))

			first := field.NewRecord()
			first.Set("title", field.Text("<b>bold</b>"))
			first.Set("link", field.WithAttributes("Read more", map[string]string{"href": "https://x.com/1", "rel": "alternate"}))
			first.Set("pubDate", field.Text("Mon, 02 Jan 2006 15:04:05 MST"))
			feed.AddItem(first)

			second := field.NewRecord()
			second.Set("title", field.Text("Second"))
			feed.AddItem(second)

			xml, err := generate.Serialize(feed)
			require.NoError(t, err)

			res := ParseString(xml)
			require.Nil(t, res.Err)
			assert.True(t, feed.Equal(res.Feed), "round trip changed the feed:\n%s", xml)
		})
	}
}

func TestParse_TrailingContentIsParseError(t *testing.T) {
	res := ParseString(`<rss><channel><item><title>x</title></item></channel></rss><extra/>`)
	require.NotNil(t, res.Err)
	assert.Equal(t, feederr.KindParse, res.Err.Kind)
	assert.Equal(t, MsgInvalidXML, res.Err.Message)
	assert.Empty(t, res.Feed.Items)
}
