package vectorstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	assert.Equal(t, KindString, Coerce("hello").Kind())
	assert.Equal(t, KindBool, Coerce(true).Kind())
	assert.Equal(t, KindInt, Coerce(42).Kind())
	assert.Equal(t, KindInt, Coerce(int64(42)).Kind())
	assert.Equal(t, KindFloat, Coerce(1.5).Kind())

	// JSON numbers arrive as float64; integral ones narrow back to int
	assert.Equal(t, KindInt, Coerce(float64(7)).Kind())
	assert.Equal(t, int64(7), Coerce(float64(7)).Value())

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01T12:00:00Z", Coerce(ts).Value())

	// non-scalars flatten to strings
	assert.Equal(t, KindString, Coerce([]int{1, 2}).Kind())
	assert.Equal(t, KindString, Coerce(nil).Kind())
}

func TestMetadataJSONRoundTrip(t *testing.T) {
	meta := Metadata{
		"name":   String("orders"),
		"rows":   Int(120),
		"weight": Float(0.75),
		"active": Bool(true),
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	var decoded Metadata
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "orders", decoded["name"].Value())
	assert.Equal(t, int64(120), decoded["rows"].Value())
	assert.Equal(t, 0.75, decoded["weight"].Value())
	assert.Equal(t, true, decoded["active"].Value())
}

func TestMetadataPlain(t *testing.T) {
	meta := CoerceMetadata(map[string]any{
		"table": "users",
		"count": 3,
	})
	plain := meta.Plain()
	assert.Equal(t, "users", plain["table"])
	assert.Equal(t, int64(3), plain["count"])

	var empty Metadata
	assert.Nil(t, empty.Plain())
}

func TestScalarAsString(t *testing.T) {
	assert.Equal(t, "42", Int(42).AsString())
	assert.Equal(t, "1.5", Float(1.5).AsString())
	assert.Equal(t, "true", Bool(true).AsString())
	assert.Equal(t, "x", String("x").AsString())
}
