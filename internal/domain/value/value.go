// Package value models Firestore typed values as a closed sum type.
//
// Every variant serializes to the REST envelope {"<tag>": payload}.
// Parse is the inverse for a single envelope, Fields for a field map.
package value

import (
	"encoding/json"
	"strconv"
	"time"
)

// Tag is the wire name of a value variant.
type Tag string

// Wire tags.
const (
	TagNull      Tag = "nullValue"
	TagBoolean   Tag = "booleanValue"
	TagString    Tag = "stringValue"
	TagInteger   Tag = "integerValue"
	TagDouble    Tag = "doubleValue"
	TagTimestamp Tag = "timestampValue"
	TagGeoPoint  Tag = "geoPointValue"
	TagReference Tag = "referenceValue"
	TagBytes     Tag = "bytesValue"
	TagArray     Tag = "arrayValue"
	TagMap       Tag = "mapValue"
)

// Value is one tagged Firestore value. The set of implementations is closed.
type Value interface {
	Tag() Tag
	isValue()
}

// Null is the null variant.
type Null struct{}

// Bool is the boolean variant.
type Bool bool

// String is the string variant.
type String string

// Integer carries a decimal number exactly as it travels on the wire.
// The REST API sends int64 values as JSON strings.
type Integer string

// Double is the floating point variant.
type Double float64

// Timestamp is the timestamp variant.
type Timestamp time.Time

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Reference is a resource name pointing at another document.
type Reference string

// Bytes is the binary variant, base64 on the wire.
type Bytes []byte

// Array is an ordered list of values.
type Array []Value

// Map is a nested document.
type Map Fields

// Fields maps field names to values, as found in a document body.
type Fields map[string]Value

// Unknown holds a value whose tag this package does not model. The payload
// is kept verbatim.
type Unknown struct {
	Name    Tag
	Payload json.RawMessage
}

func (Null) Tag() Tag      { return TagNull }
func (Bool) Tag() Tag      { return TagBoolean }
func (String) Tag() Tag    { return TagString }
func (Integer) Tag() Tag   { return TagInteger }
func (Double) Tag() Tag    { return TagDouble }
func (Timestamp) Tag() Tag { return TagTimestamp }
func (GeoPoint) Tag() Tag  { return TagGeoPoint }
func (Reference) Tag() Tag { return TagReference }
func (Bytes) Tag() Tag     { return TagBytes }
func (Array) Tag() Tag     { return TagArray }
func (Map) Tag() Tag       { return TagMap }
func (u Unknown) Tag() Tag { return u.Name }

func (Null) isValue()      {}
func (Bool) isValue()      {}
func (String) isValue()    {}
func (Integer) isValue()   {}
func (Double) isValue()    {}
func (Timestamp) isValue() {}
func (GeoPoint) isValue()  {}
func (Reference) isValue() {}
func (Bytes) isValue()     {}
func (Array) isValue()     {}
func (Map) isValue()       {}
func (Unknown) isValue()   {}

// Int64 parses the payload as a signed 64-bit integer.
func (i Integer) Int64() (int64, error) {
	return strconv.ParseInt(string(i), 10, 64)
}

// Float64 parses the payload as a float.
func (i Integer) Float64() (float64, error) {
	return strconv.ParseFloat(string(i), 64)
}

func envelope(tag Tag, payload any) ([]byte, error) {
	return json.Marshal(map[Tag]any{tag: payload})
}

// MarshalJSON implements json.Marshaler.
func (Null) MarshalJSON() ([]byte, error) { return envelope(TagNull, nil) }

// MarshalJSON implements json.Marshaler.
func (b Bool) MarshalJSON() ([]byte, error) { return envelope(TagBoolean, bool(b)) }

// MarshalJSON implements json.Marshaler.
func (s String) MarshalJSON() ([]byte, error) { return envelope(TagString, string(s)) }

// MarshalJSON implements json.Marshaler. The payload is written as a number literal.
func (i Integer) MarshalJSON() ([]byte, error) { return envelope(TagInteger, json.Number(i)) }

// MarshalJSON implements json.Marshaler.
func (d Double) MarshalJSON() ([]byte, error) { return envelope(TagDouble, float64(d)) }

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return envelope(TagTimestamp, time.Time(t).UTC().Format(time.RFC3339Nano))
}

// MarshalJSON implements json.Marshaler.
func (g GeoPoint) MarshalJSON() ([]byte, error) {
	type point GeoPoint
	return envelope(TagGeoPoint, point(g))
}

// MarshalJSON implements json.Marshaler.
func (r Reference) MarshalJSON() ([]byte, error) { return envelope(TagReference, string(r)) }

// MarshalJSON implements json.Marshaler.
func (b Bytes) MarshalJSON() ([]byte, error) { return envelope(TagBytes, []byte(b)) }

// MarshalJSON implements json.Marshaler.
func (a Array) MarshalJSON() ([]byte, error) {
	values := []Value(a)
	if values == nil {
		values = []Value{}
	}
	return envelope(TagArray, struct {
		Values []Value `json:"values"`
	}{values})
}

// MarshalJSON implements json.Marshaler.
func (m Map) MarshalJSON() ([]byte, error) {
	fields := Fields(m)
	if fields == nil {
		fields = Fields{}
	}
	return envelope(TagMap, struct {
		Fields Fields `json:"fields"`
	}{fields})
}

// MarshalJSON implements json.Marshaler.
func (u Unknown) MarshalJSON() ([]byte, error) {
	payload := u.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return envelope(u.Name, payload)
}
