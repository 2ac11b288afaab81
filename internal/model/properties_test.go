package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestPropertiesInsertionOrder(t *testing.T) {
	p := NewProperties()
	p.Set("Location", "[0, 0, 1920, 1036]")
	p.Set("Open", "on")
	p.Set("ZoomFactor", "100")

	assert.Equal(t, []string{"Location", "Open", "ZoomFactor"}, p.Keys())

	// Updating an existing key keeps its position.
	p.Set("Open", "off")
	assert.Equal(t, []string{"Location", "Open", "ZoomFactor"}, p.Keys())
	assert.Equal(t, "off", p.GetDefault("Open"))
}

func TestPropertiesDelete(t *testing.T) {
	p := NewProperties()
	p.Set("a", "1")
	p.Set("b", "2")
	p.Set("c", "3")

	p.Delete("b")
	assert.Equal(t, []string{"a", "c"}, p.Keys())
	assert.False(t, p.Has("b"))

	p.Delete("missing") // no-op
	assert.Equal(t, 2, p.Len())
}

func TestPropertiesClone(t *testing.T) {
	p := NewProperties()
	p.Set("a", "1")
	p.Set("b", "2")

	c := p.Clone()
	require.True(t, p.Equal(c))

	c.Set("a", "changed")
	c.Set("z", "new")
	assert.Equal(t, "1", p.GetDefault("a"))
	assert.False(t, p.Has("z"))
	assert.False(t, p.Equal(c))
}

func TestPropertiesEqualIsOrderSensitive(t *testing.T) {
	a := NewProperties()
	a.Set("x", "1")
	a.Set("y", "2")

	b := NewProperties()
	b.Set("y", "2")
	b.Set("x", "1")

	assert.False(t, a.Equal(b))
}

func TestPropertiesJSONRoundTrip(t *testing.T) {
	p := NewProperties()
	p.Set("Position", "[10, 20, 50, 60]")
	p.Set("ZOrder", "1")
	p.Set("Empty", "")

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"Position":"[10, 20, 50, 60]","ZOrder":"1","Empty":""}`, string(data))

	restored := NewProperties()
	require.NoError(t, json.Unmarshal(data, restored))
	assert.True(t, p.Equal(restored))
}

func TestPropertiesMsgpackRoundTrip(t *testing.T) {
	p := NewProperties()
	p.Set("b", "second")
	p.Set("a", "first")

	data, err := msgpack.Marshal(p)
	require.NoError(t, err)

	restored := NewProperties()
	require.NoError(t, msgpack.Unmarshal(data, restored))
	assert.True(t, p.Equal(restored))
	assert.Equal(t, []string{"b", "a"}, restored.Keys())
}
