package value

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// TypeOf picks the wire tag for a native Go value. First match wins:
// bool, string, finite number, slice or array, string-keyed map.
// Everything else is sent as a string.
//
// json.Number is the numeric-string carrier: it is tagged as an integer
// even though it is a string underneath.
func TypeOf(v any) Tag {
	switch x := v.(type) {
	case nil:
		return TagNull
	case Value:
		return x.Tag()
	case bool:
		return TagBoolean
	case string:
		return TagString
	case json.Number:
		if isFinite(string(x)) {
			return TagInteger
		}
		return TagString
	case time.Time:
		return TagTimestamp
	case []byte:
		return TagBytes
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return TagBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return TagInteger
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			return TagInteger
		}
	case reflect.Slice, reflect.Array:
		return TagArray
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return TagMap
		}
	}
	return TagString
}

// Encode wraps a native Go value into its tagged form. It never fails:
// values without a better match become strings.
func Encode(v any) Value {
	if val, ok := v.(Value); ok {
		return val
	}

	switch TypeOf(v) {
	case TagNull:
		return Null{}
	case TagBoolean:
		return Bool(reflect.ValueOf(v).Bool())
	case TagInteger:
		return Integer(numberText(v))
	case TagTimestamp:
		t, _ := v.(time.Time)
		return Timestamp(t)
	case TagBytes:
		b, _ := v.([]byte)
		return Bytes(b)
	case TagArray:
		rv := reflect.ValueOf(v)
		out := make(Array, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Encode(rv.Index(i).Interface())
		}
		return out
	case TagMap:
		rv := reflect.ValueOf(v)
		out := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Encode(iter.Value().Interface())
		}
		return out
	default:
		if s, ok := v.(string); ok {
			return String(s)
		}
		if s, ok := v.(fmt.Stringer); ok {
			return String(s.String())
		}
		return String(fmt.Sprint(v))
	}
}

func numberText(v any) string {
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	default:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
}

// isFinite reports whether s is a finite JSON number literal.
func isFinite(s string) bool {
	if !json.Valid([]byte(s)) {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}
