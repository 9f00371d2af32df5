package value

import (
	"encoding/json"
	"time"
)

// Decode unwraps a tagged value into plain Go data.
//
// Integers become int64, or float64 when the payload is not integral.
// Arrays become []any and maps become map[string]any, recursively.
// Unknown values become their payload decoded as plain JSON.
func Decode(v Value) any {
	switch x := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(x)
	case String:
		return string(x)
	case Integer:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return string(x)
	case Double:
		return float64(x)
	case Timestamp:
		return time.Time(x)
	case GeoPoint:
		return map[string]any{"latitude": x.Latitude, "longitude": x.Longitude}
	case Reference:
		return string(x)
	case Bytes:
		return []byte(x)
	case Array:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Decode(e)
		}
		return out
	case Map:
		return DecodeFields(Fields(x))
	case Unknown:
		var out any
		if err := json.Unmarshal(x.Payload, &out); err != nil {
			return nil
		}
		return out
	default:
		return nil
	}
}

// DecodeFields unwraps every field of a document body.
func DecodeFields(f Fields) map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = Decode(v)
	}
	return out
}
