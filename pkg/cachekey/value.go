package cachekey

import (
	"bytes"
	"math"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// Value is a JSON-like parameter value. The set of implementations is closed:
// String, Number, Integer, Unsigned, Bool, Null, Object and Array.
type Value interface {
	encode(buf *bytes.Buffer)
}

type (
	// String is a text value.
	String string
	// Number is a numeric value. Integers are encoded without a fraction.
	Number float64
	// Integer is a signed integer encoded exactly, including magnitudes beyond
	// what a Number can hold.
	Integer int64
	// Unsigned is an unsigned integer encoded exactly.
	Unsigned uint64
	// Bool is a boolean value.
	Bool bool
	// Null is the absent value.
	Null struct{}
	// Object is a nested mapping. Its keys are encoded in sorted order.
	Object map[string]Value
	// Array is an ordered sequence.
	Array []Value
)

// Params is the parameter mapping keyed caches derive their keys from.
type Params map[string]Value

// Int returns n as a Number, or as an Integer when a Number would round it.
func Int(n int) Value { return fromInt(int64(n)) }

func (s String) encode(buf *bytes.Buffer) {
	b, err := json.Marshal(string(s))
	if err != nil {
		// Strings always marshal; keep the output well-formed regardless.
		buf.WriteString(`""`)
		return
	}
	buf.Write(b)
}

func (n Number) encode(buf *bytes.Buffer) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		buf.WriteString("null")
		return
	}
	if f == 0 {
		f = 0 // -0 and 0 share one key
	}
	b, err := json.Marshal(f)
	if err != nil {
		buf.WriteString("null")
		return
	}
	buf.Write(b)
}

func (n Integer) encode(buf *bytes.Buffer) {
	buf.WriteString(strconv.FormatInt(int64(n), 10))
}

func (n Unsigned) encode(buf *bytes.Buffer) {
	buf.WriteString(strconv.FormatUint(uint64(n), 10))
}

func (v Bool) encode(buf *bytes.Buffer) {
	if v {
		buf.WriteString("true")
		return
	}
	buf.WriteString("false")
}

func (Null) encode(buf *bytes.Buffer) {
	buf.WriteString("null")
}

func (o Object) encode(buf *bytes.Buffer) {
	buf.WriteByte('{')
	for i, name := range sortedNames(o) {
		if i > 0 {
			buf.WriteByte(',')
		}
		String(name).encode(buf)
		buf.WriteByte(':')
		encodeValue(buf, o[name])
	}
	buf.WriteByte('}')
}

func (a Array) encode(buf *bytes.Buffer) {
	buf.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodeValue(buf, v)
	}
	buf.WriteByte(']')
}

// encodeValue treats a nil interface as Null.
func encodeValue(buf *bytes.Buffer, v Value) {
	if v == nil {
		Null{}.encode(buf)
		return
	}
	v.encode(buf)
}

func sortedNames[M ~map[string]Value](m M) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
