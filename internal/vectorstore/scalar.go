package vectorstore

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

type ScalarKind int

const (
	KindString ScalarKind = iota
	KindInt
	KindFloat
	KindBool
)

// Scalar is a closed union over the value types the vector store supports
// for metadata: string, int, float and bool. Nested values are not
// representable; CoerceMetadata flattens everything else to strings.
type Scalar struct {
	kind ScalarKind
	s    string
	i    int64
	f    float64
	b    bool
}

func String(v string) Scalar { return Scalar{kind: KindString, s: v} }
func Int(v int64) Scalar     { return Scalar{kind: KindInt, i: v} }
func Float(v float64) Scalar { return Scalar{kind: KindFloat, f: v} }
func Bool(v bool) Scalar     { return Scalar{kind: KindBool, b: v} }

func (v Scalar) Kind() ScalarKind { return v.kind }

// Value returns the underlying dynamic value for JSON shaping.
func (v Scalar) Value() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	default:
		return v.s
	}
}

// AsString renders the value for display.
func (v Scalar) AsString() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

func (v Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Value())
}

func (v *Scalar) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Coerce(raw)
	return nil
}

// Metadata is the scalar-only mapping stored alongside each vector.
type Metadata map[string]Scalar

// Plain converts metadata back to a dynamic map for API responses.
func (m Metadata) Plain() map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.Value()
	}
	return out
}

// Coerce maps a dynamic value onto the closest supported scalar. JSON
// numbers arrive as float64; integral ones are narrowed back to ints.
func Coerce(v any) Scalar {
	switch x := v.(type) {
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case float32:
		return Coerce(float64(x))
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) && math.Abs(x) < math.MaxInt64 {
			return Int(int64(x))
		}
		return Float(x)
	case time.Time:
		return String(x.UTC().Format(time.RFC3339))
	case []byte:
		return String(string(x))
	case nil:
		return String("")
	default:
		return String(fmt.Sprintf("%v", x))
	}
}

// CoerceMetadata flattens a dynamic map into scalar metadata.
func CoerceMetadata(in map[string]any) Metadata {
	if in == nil {
		return nil
	}
	out := make(Metadata, len(in))
	for k, v := range in {
		out[k] = Coerce(v)
	}
	return out
}
