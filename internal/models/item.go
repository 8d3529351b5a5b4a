// ABOUTME: Edit operations on feed items and channel metadata
// ABOUTME: Text edits keep any attributes the original element carried

package models

import (
	"github.com/harper/rssedit/internal/feederr"
	"github.com/harper/rssedit/internal/field"
)

func (f *Feed) item(index int) (*field.Record, error) {
	if index < 0 || index >= len(f.Items) {
		return nil, feederr.Newf(feederr.KindValidation, "item index %d out of range (feed has %d items)", index, len(f.Items))
	}
	return f.Items[index], nil
}

// SetItemField replaces the text of a field on one item. Attributes already
// present on the field are preserved. Empty text on a field without
// attributes removes the field.
func (f *Feed) SetItemField(index int, key, text string) error {
	item, err := f.item(index)
	if err != nil {
		return err
	}
	setText(item, key, text)
	return nil
}

// SetItemAttribute sets one attribute of an item field, creating the field
// if needed.
func (f *Feed) SetItemAttribute(index int, key, attr, value string) error {
	item, err := f.item(index)
	if err != nil {
		return err
	}
	if attr == "" {
		return feederr.Validation("attribute name is required")
	}
	v, _ := item.Get(key)
	v = v.Clone()
	if v.Attributes == nil {
		v.Attributes = make(map[string]string)
	}
	v.Attributes[attr] = value
	item.Set(key, v)
	return nil
}

// DeleteItemField removes a field from one item.
func (f *Feed) DeleteItemField(index int, key string) error {
	item, err := f.item(index)
	if err != nil {
		return err
	}
	item.Delete(key)
	return nil
}

// AddItem appends an item and returns its index.
func (f *Feed) AddItem(rec *field.Record) int {
	if rec == nil {
		rec = field.NewRecord()
	}
	f.Items = append(f.Items, rec)
	return len(f.Items) - 1
}

// RemoveItem deletes the item at index.
func (f *Feed) RemoveItem(index int) error {
	if _, err := f.item(index); err != nil {
		return err
	}
	f.Items = append(f.Items[:index], f.Items[index+1:]...)
	return nil
}

// SetChannelField replaces the text of a channel field, preserving attributes.
func (f *Feed) SetChannelField(key, text string) {
	if f.ChannelFields == nil {
		f.ChannelFields = field.NewRecord()
	}
	setText(f.ChannelFields, key, text)
}

func setText(rec *field.Record, key, text string) {
	existing, _ := rec.Get(key)
	v := field.WithAttributes(text, existing.Attributes)
	if v.IsEmpty() {
		rec.Delete(key)
		return
	}
	rec.Set(key, v)
}
