// ABOUTME: Tests for the insertion-ordered field record
// ABOUTME: Covers ordering, overwrite semantics, cloning and JSON round trips

package field

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Order(t *testing.T) {
	r := NewRecord()
	r.Set("title", Text("T"))
	r.Set("link", Text("L"))
	r.Set("category", Text("first"))
	r.Set("category", Text("second"))

	assert.Equal(t, []string{"title", "link", "category"}, r.Keys())
	assert.Equal(t, "second", r.Text("category"))
	assert.Equal(t, 3, r.Len())
}

func TestRecord_Delete(t *testing.T) {
	r := NewRecord()
	r.Set("a", Text("1"))
	r.Set("b", Text("2"))

	if !r.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if r.Delete("missing") {
		t.Error("Delete(missing) = true, want false")
	}
	assert.Equal(t, []string{"b"}, r.Keys())
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	r := NewRecord()
	r.Set("link", WithAttributes("", map[string]string{"href": "a"}))

	c := r.Clone()
	c.Set("title", Text("new"))
	v, _ := c.Get("link")
	v.Attributes["href"] = "changed"

	if r.Len() != 1 {
		t.Errorf("original length changed to %d", r.Len())
	}
	orig, _ := r.Get("link")
	if orig.Attr("href") != "a" {
		t.Errorf("original attribute changed to %q", orig.Attr("href"))
	}
}

func TestRecord_JSONKeepsOrder(t *testing.T) {
	r := NewRecord()
	r.Set("zeta", Text("z"))
	r.Set("alpha", WithAttributes("A", map[string]string{"href": "https://x.com"}))

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"z","alpha":"{\"text\":\"A\",\"attributes\":{\"href\":\"https://x.com\"}}"}`, string(data))

	back := NewRecord()
	require.NoError(t, json.Unmarshal(data, back))
	assert.True(t, r.Equal(back))
}

func TestRecord_UnmarshalSkipsEmpty(t *testing.T) {
	r := NewRecord()
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":"","c":null,"d":"  "}`), r))
	assert.Equal(t, []string{"a"}, r.Keys())

	assert.Error(t, json.Unmarshal([]byte(`["a"]`), r))
}

func TestRecord_NilSafe(t *testing.T) {
	var r *Record
	if r.Len() != 0 {
		t.Error("nil record should have zero length")
	}
	if _, ok := r.Get("x"); ok {
		t.Error("nil record Get should miss")
	}
}
