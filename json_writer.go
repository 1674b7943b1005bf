package statement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObject builds a JSON object whose keys keep the order they were added in.
// The first error sticks and is returned by MarshalJSON.
type jsonObject struct {
	members [][]byte // "key":value
	err     error
}

// Set adds key with the JSON encoding of value.
func (o *jsonObject) Set(key string, value any) *jsonObject {
	if o.err != nil {
		return o
	}
	v, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("cannot encode %q: %w", key, err)
		return o
	}
	k, _ := json.Marshal(key)
	o.members = append(o.members, append(append(k, ':'), v...))
	return o
}

// SetNonZero adds key only when value is not the zero value of its type.
func (o *jsonObject) SetNonZero(key string, value any) *jsonObject {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return o
	}
	return o.Set(key, value)
}

// Inline adds the members of the JSON object value encodes to, in place.
func (o *jsonObject) Inline(value any) *jsonObject {
	if o.err != nil {
		return o
	}
	b, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("cannot encode inlined value: %w", err)
		return o
	}
	b = bytes.TrimSpace(b)
	if len(b) < 2 || b[0] != '{' || b[len(b)-1] != '}' {
		o.err = fmt.Errorf("cannot inline %s: not an object", b)
		return o
	}
	if inner := bytes.TrimSpace(b[1 : len(b)-1]); len(inner) > 0 {
		o.members = append(o.members, inner)
	}
	return o
}

func (o *jsonObject) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	var b bytes.Buffer
	b.WriteByte('{')
	b.Write(bytes.Join(o.members, []byte{','}))
	b.WriteByte('}')
	return b.Bytes(), nil
}
