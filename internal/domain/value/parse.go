package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrMalformed signals a value envelope that cannot be parsed.
var ErrMalformed = errors.New("malformed value")

// Parse reads a single {"<tag>": payload} envelope.
func Parse(data []byte) (Value, error) {
	var env map[Tag]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(env) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one tag, got %d", ErrMalformed, len(env))
	}
	for tag, raw := range env {
		v, err := parseTagged(tag, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, tag, err)
		}
		return v, nil
	}
	return nil, ErrMalformed
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Fields) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw == nil {
		*f = nil
		return nil
	}
	out := make(Fields, len(raw))
	for name, r := range raw {
		v, err := Parse(r)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = v
	}
	*f = out
	return nil
}

//nolint:gocyclo // one case per wire tag
func parseTagged(tag Tag, raw json.RawMessage) (Value, error) {
	switch tag {
	case TagNull:
		return Null{}, nil
	case TagBoolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case TagString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return String(s), nil
	case TagInteger:
		return parseInteger(raw)
	case TagDouble:
		return parseDouble(raw)
	case TagTimestamp:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, err
		}
		return Timestamp(t), nil
	case TagGeoPoint:
		var g GeoPoint
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, err
		}
		return g, nil
	case TagReference:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return Reference(s), nil
	case TagBytes:
		var b []byte
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return Bytes(b), nil
	case TagArray:
		var a struct {
			Values []json.RawMessage `json:"values"`
		}
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		out := make(Array, 0, len(a.Values))
		for i, r := range a.Values {
			v, err := Parse(r)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	case TagMap:
		var m struct {
			Fields Fields `json:"fields"`
		}
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		if m.Fields == nil {
			return Map{}, nil
		}
		return Map(m.Fields), nil
	default:
		return Unknown{Name: tag, Payload: append(json.RawMessage(nil), raw...)}, nil
	}
}

// parseInteger accepts both the string form the API sends and a bare number.
func parseInteger(raw json.RawMessage) (Value, error) {
	s, err := scalarText(raw)
	if err != nil {
		return nil, err
	}
	if !isFinite(s) {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return Integer(s), nil
}

// parseDouble accepts a number or the strings "NaN", "Infinity", "-Infinity".
func parseDouble(raw json.RawMessage) (Value, error) {
	s, err := scalarText(raw)
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return Double(f), nil
}

func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
