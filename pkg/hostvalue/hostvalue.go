// Package hostvalue converts tagged values into the plain Go containers the
// host side of the bridge consumes, and parses host payloads back.
//
// ToHost is the single outbound choke point: events and query results go
// through it regardless of which native object produced them.
package hostvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/aretw0/navbridge/pkg/value"
)

// ToHost converts v into nil, bool, int64, float64, string, []any or
// map[string]any. Mapping order is not kept by map[string]any; use
// value.Value's JSON encoding when order matters on the wire.
func ToHost(v value.Value) any {
	return value.Visit[any](v, hostConverter{})
}

type hostConverter struct{}

func (hostConverter) VisitNull() any            { return nil }
func (hostConverter) VisitBool(b bool) any      { return b }
func (hostConverter) VisitInt(i int64) any      { return i }
func (hostConverter) VisitDouble(f float64) any { return f }
func (hostConverter) VisitString(s string) any  { return s }

func (c hostConverter) VisitSequence(items []value.Value) any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = value.Visit[any](item, c)
	}
	return out
}

func (c hostConverter) VisitMapping(m *value.Mapping) any {
	out := make(map[string]any, m.Len())
	m.Range(func(key string, item value.Value) bool {
		out[key] = value.Visit[any](item, c)
		return true
	})
	return out
}

// FromHost parses a host container back into a value. Integer Go types map
// to KindInt, float types to KindDouble, and json.Number keeps whichever
// form its text has. Map keys are sorted since Go maps carry no order.
func FromHost(x any) (value.Value, error) {
	switch t := x.(type) {
	case nil:
		return value.Null(), nil
	case value.Value:
		return t, nil
	case bool:
		return value.Bool(t), nil
	case int:
		return value.Int(int64(t)), nil
	case int8:
		return value.Int(int64(t)), nil
	case int16:
		return value.Int(int64(t)), nil
	case int32:
		return value.Int(int64(t)), nil
	case int64:
		return value.Int(t), nil
	case uint8:
		return value.Int(int64(t)), nil
	case uint16:
		return value.Int(int64(t)), nil
	case uint32:
		return value.Int(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return value.Null(), fmt.Errorf("integer %d overflows int64", t)
		}
		return value.Int(int64(t)), nil
	case float32:
		return value.Double(float64(t)), nil
	case float64:
		return value.Double(t), nil
	case string:
		return value.String(t), nil
	case json.Number:
		return fromNumber(t)
	case []any:
		items := make([]value.Value, len(t))
		for i, item := range t {
			v, err := FromHost(item)
			if err != nil {
				return value.Null(), fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return value.Sequence(items...), nil
	case map[string]any:
		m := value.NewMapping()
		for _, key := range slices.Sorted(maps.Keys(t)) {
			v, err := FromHost(t[key])
			if err != nil {
				return value.Null(), fmt.Errorf("%s: %w", key, err)
			}
			m.Set(key, v)
		}
		return value.Map(m), nil
	}
	return value.Null(), fmt.Errorf("unsupported host type %T", x)
}

// Decode reads exactly one JSON document into a value. Object key order and
// the int/double distinction of numbers are kept. Anything but whitespace
// after the document is an error.
func Decode(r io.Reader) (value.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeToken(dec)
	if err != nil {
		return value.Null(), err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return value.Null(), fmt.Errorf("unexpected data after JSON value at offset %d", dec.InputOffset())
	}
	return v, nil
}

// DecodeBytes is Decode over a byte slice. Empty input decodes to null.
func DecodeBytes(data []byte) (value.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return value.Null(), nil
	}
	return Decode(bytes.NewReader(data))
}

func decodeToken(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Null(), err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			items := []value.Value{}
			for dec.More() {
				item, err := decodeToken(dec)
				if err != nil {
					return value.Null(), err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return value.Null(), err
			}
			return value.Sequence(items...), nil
		case '{':
			m := value.NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return value.Null(), err
				}
				key, ok := keyTok.(string)
				if !ok {
					return value.Null(), fmt.Errorf("unexpected object key %v", keyTok)
				}
				item, err := decodeToken(dec)
				if err != nil {
					return value.Null(), err
				}
				m.Set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return value.Null(), err
			}
			return value.Map(m), nil
		}
		return value.Null(), fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		return fromNumber(t)
	}
	return FromHost(tok)
}

func fromNumber(n json.Number) (value.Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return value.Int(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return value.Null(), fmt.Errorf("invalid number %q: %w", s, err)
	}
	return value.Double(f), nil
}
