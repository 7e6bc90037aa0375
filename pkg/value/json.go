package value

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

var _ json.Marshaler = Value{}

// MarshalJSON encodes v keeping mapping order. Doubles always carry a
// fraction or exponent so a number-preserving decoder restores the tag.
// Non-finite doubles have no JSON form and encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := Visit[error](v, &jsonWriter{buf: &buf}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type jsonWriter struct {
	buf *bytes.Buffer
}

func (w *jsonWriter) VisitNull() error {
	w.buf.WriteString("null")
	return nil
}

func (w *jsonWriter) VisitBool(b bool) error {
	w.buf.WriteString(strconv.FormatBool(b))
	return nil
}

func (w *jsonWriter) VisitInt(i int64) error {
	w.buf.WriteString(strconv.FormatInt(i, 10))
	return nil
}

func (w *jsonWriter) VisitDouble(f float64) error {
	if !isFinite(f) {
		w.buf.WriteString("null")
		return nil
	}
	w.buf.WriteString(formatDouble(f))
	return nil
}

func (w *jsonWriter) VisitString(s string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	w.buf.Write(data)
	return nil
}

func (w *jsonWriter) VisitSequence(items []Value) error {
	w.buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		if err := Visit[error](item, w); err != nil {
			return err
		}
	}
	w.buf.WriteByte(']')
	return nil
}

func (w *jsonWriter) VisitMapping(m *Mapping) error {
	w.buf.WriteByte('{')
	var err error
	first := true
	m.Range(func(key string, item Value) bool {
		if !first {
			w.buf.WriteByte(',')
		}
		first = false
		if err = w.VisitString(key); err != nil {
			return false
		}
		w.buf.WriteByte(':')
		err = Visit[error](item, w)
		return err == nil
	})
	if err != nil {
		return err
	}
	w.buf.WriteByte('}')
	return nil
}

func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eENI") {
		s += ".0"
	}
	return s
}
