// ABOUTME: Detects RSS 2.0 or Atom documents and converts them into the flat Feed model
// ABOUTME: Never panics; every failure becomes a typed error alongside a best-effort feed

package parse

import (
	"fmt"

	"github.com/harper/rssedit/internal/extract"
	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/field"
	"github.com/harper/rssedit/internal/models"
	"github.com/harper/rssedit/internal/xmltree"
)

const (
	tagParserError = "parsererror"
	tagChannel     = "channel"
	tagItem        = "item"
	tagFeed        = "feed"
	tagEntry       = "entry"
)

// Error messages returned by Parse.
const (
	MsgInvalidXML   = "Invalid XML format. Please check the RSS feed structure."
	MsgNoItems      = "RSS feed contains no items."
	MsgNoEntries    = "Atom feed contains no entries."
	MsgUnrecognized = "Feed format not recognized. Expected RSS 2.0 or Atom format."
)

// Result is the outcome of a parse. Feed is always non-nil; when Err is set
// it holds whatever could be extracted for diagnostics.
type Result struct {
	Feed *models.Feed
	Err  *feederr.Error
}

// Parse reads raw feed XML.
func Parse(data []byte) (res Result) {
	defer recoverInto(&res)

	doc, err := xmltree.Read(data)
	if err != nil {
		return Result{Feed: models.NewFeed(models.FeedTypeRSS), Err: feederr.Parse(MsgInvalidXML)}
	}
	return Resolve(doc.Root())
}

// ParseString is Parse for string input.
func ParseString(s string) Result {
	return Parse([]byte(s))
}

// Resolve classifies an already parsed document tree. root may be nil for
// an empty document.
func Resolve(root xmltree.Node) (res Result) {
	defer recoverInto(&res)

	if xmltree.Find(root, named(tagParserError)) != nil {
		return Result{Feed: models.NewFeed(models.FeedTypeRSS), Err: feederr.Parse(MsgInvalidXML)}
	}

	if channel := xmltree.Find(root, named(tagChannel)); channel != nil {
		return build(channel, models.FeedTypeRSS, tagItem, MsgNoItems)
	}

	if root != nil && named(tagFeed)(root) {
		return build(root, models.FeedTypeAtom, tagEntry, MsgNoEntries)
	}

	return Result{Feed: models.NewFeed(models.FeedTypeRSS), Err: feederr.Validation(MsgUnrecognized)}
}

func recoverInto(res *Result) {
	if r := recover(); r != nil {
		*res = Result{
			Feed: models.NewFeed(models.FeedTypeRSS),
			Err:  feederr.Parse(fmt.Sprint(r)),
		}
	}
}

func build(container xmltree.Node, feedType models.FeedType, itemTag, emptyMsg string) Result {
	feed := models.NewFeed(feedType)
	feed.ChannelFields = extract.Fields(container, itemTag)

	for _, el := range xmltree.ChildrenWhere(container, named(itemTag)) {
		feed.Items = append(feed.Items, extract.Fields(el))
	}

	if len(feed.Items) == 0 {
		return Result{Feed: feed, Err: feederr.Validation(emptyMsg)}
	}
	return Result{Feed: feed}
}

func named(tag string) func(xmltree.Node) bool {
	return func(n xmltree.Node) bool {
		return field.LocalName(n.Name()) == tag
	}
}
