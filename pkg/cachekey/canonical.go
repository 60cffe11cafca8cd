package cachekey

import (
	"bytes"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Encode serializes v as compact JSON with object keys sorted.
func Encode(v Value) string {
	var buf bytes.Buffer
	encodeValue(&buf, v)
	return buf.String()
}

// Query renders params as name=value pairs joined by '&', names sorted
// lexicographically and values JSON-encoded. Permutations of the same params
// render identically.
func Query(params Params) string {
	var buf bytes.Buffer
	for i, name := range sortedNames(params) {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(name)
		buf.WriteByte('=')
		encodeValue(&buf, params[name])
	}
	return buf.String()
}

// JSON renders params as a canonical JSON object.
func JSON(params Params) string {
	return Encode(Object(params))
}

// Hash compresses s into a short base-36 token using 64-bit xxHash.
func Hash(s string) string {
	return strconv.FormatUint(xxhash.Sum64String(s), 36)
}
