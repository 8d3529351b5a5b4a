// ABOUTME: Feed model holding channel metadata and ordered items as flat field records
// ABOUTME: Feeds are owned by the caller that parsed them; Clone gives an independent copy

package models

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/harper/rssedit/internal/field"
)

// FeedType is the XML dialect a feed was read from or will be written as.
type FeedType string

const (
	FeedTypeRSS  FeedType = "rss"
	FeedTypeAtom FeedType = "atom"
)

// Feed represents one RSS 2.0 or Atom document.
type Feed struct {
	ChannelFields *field.Record   `json:"channelFields"` // metadata of <channel> or <feed>
	Items         []*field.Record `json:"items"`         // <item> or <entry> records in document order
	FeedType      FeedType        `json:"feedType"`
}

// NewFeed creates an empty feed of the given type.
func NewFeed(feedType FeedType) *Feed {
	return &Feed{
		ChannelFields: field.NewRecord(),
		Items:         []*field.Record{},
		FeedType:      feedType,
	}
}

// Title returns the channel title text.
func (f *Feed) Title() string {
	if f == nil {
		return ""
	}
	return f.ChannelFields.Text("title")
}

// Clone returns a deep copy sharing no records with f.
func (f *Feed) Clone() *Feed {
	if f == nil {
		return nil
	}
	c := &Feed{
		ChannelFields: f.ChannelFields.Clone(),
		Items:         make([]*field.Record, len(f.Items)),
		FeedType:      f.FeedType,
	}
	for i, item := range f.Items {
		c.Items[i] = item.Clone()
	}
	return c
}

// Equal reports whether two feeds have the same type, channel fields and items.
func (f *Feed) Equal(o *Feed) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.FeedType != o.FeedType || !f.ChannelFields.Equal(o.ChannelFields) || len(f.Items) != len(o.Items) {
		return false
	}
	for i := range f.Items {
		if !f.Items[i].Equal(o.Items[i]) {
			return false
		}
	}
	return true
}

// Fields returns the sorted union of field names that carry a value in at
// least one item. These are the columns of the item table.
func (f *Feed) Fields() []string {
	seen := make(map[string]bool)
	for _, item := range f.Items {
		item.Each(func(key string, v field.Value) bool {
			if !v.IsEmpty() {
				seen[key] = true
			}
			return true
		})
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnmarshalJSON fills in defaults so a decoded feed is always usable.
func (f *Feed) UnmarshalJSON(data []byte) error {
	type plain Feed
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.ChannelFields == nil {
		p.ChannelFields = field.NewRecord()
	}
	for i, item := range p.Items {
		if item == nil {
			return fmt.Errorf("item %d is null", i)
		}
	}
	switch p.FeedType {
	case FeedTypeRSS, FeedTypeAtom:
	case "":
		p.FeedType = FeedTypeRSS
	default:
		return fmt.Errorf("unknown feed type %q", p.FeedType)
	}
	*f = Feed(p)
	return nil
}
