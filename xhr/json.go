package xhr

import (
	"encoding/json"
	_errors "errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrInvalidJson = _errors.New("response is not valid JSON")

const hex = "0123456789abcdef"

// Renders raw the way JSON.stringify(JSON.parse(raw)) does: compact, keys in
// object property order, numbers as JS prints them, only mandatory escapes.
func stringify(raw string) (string, error) {
	if !gjson.Valid(raw) {
		return "", ErrInvalidJson
	}
	var b strings.Builder
	writeJson(&b, gjson.Parse(raw))
	return b.String(), nil
}

func writeJson(b *strings.Builder, v gjson.Result) {
	switch {
	case v.IsArray():
		b.WriteByte('[')
		i := 0
		v.ForEach(func(_, item gjson.Result) bool {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJson(b, item)
			i++
			return true
		})
		b.WriteByte(']')
		return
	case v.IsObject():
		writeObject(b, v)
		return
	}

	switch v.Type {
	case gjson.Null:
		b.WriteString("null")
	case gjson.False:
		b.WriteString("false")
	case gjson.True:
		b.WriteString("true")
	case gjson.Number:
		writeNumber(b, v.Num)
	case gjson.String:
		writeString(b, v.Str)
	}
}

// A repeated key keeps its first position and its last value. Array-index
// keys come first in ascending order, as for any JS object.
func writeObject(b *strings.Builder, v gjson.Result) {
	var keys []string
	values := map[string]gjson.Result{}
	v.ForEach(func(key, value gjson.Result) bool {
		if _, ok := values[key.Str]; !ok {
			keys = append(keys, key.Str)
		}
		values[key.Str] = value
		return true
	})

	var indexes []string
	var names []string
	for _, key := range keys {
		if _, ok := arrayIndex(key); ok {
			indexes = append(indexes, key)
		} else {
			names = append(names, key)
		}
	}
	sort.Slice(indexes, func(i, j int) bool {
		a, _ := arrayIndex(indexes[i])
		c, _ := arrayIndex(indexes[j])
		return a < c
	})

	b.WriteByte('{')
	for i, key := range append(indexes, names...) {
		if i > 0 {
			b.WriteByte(',')
		}
		writeString(b, key)
		b.WriteByte(':')
		writeJson(b, values[key])
	}
	b.WriteByte('}')
}

func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return n, true
}

func writeNumber(b *strings.Builder, f float64) {
	switch {
	case math.IsInf(f, 0), math.IsNaN(f):
		b.WriteString("null")
	case f == 0:
		b.WriteByte('0')
	default:
		// encoding/json formats floats with the ES6 number-to-string rules.
		raw, _ := json.Marshal(f)
		b.Write(raw)
	}
}

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(hex[c>>4])
				b.WriteByte(hex[c&0xf])
				continue
			}
			b.WriteRune(c)
		}
	}
	b.WriteByte('"')
}
