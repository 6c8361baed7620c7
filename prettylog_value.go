package prettylog

import (
	"encoding/json"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// errTrailingData marks input with content after the first JSON value.
var errTrailingData = errors.Base("trailing data after JSON value")

// Kind identifies the JSON type carried by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is a parsed JSON value. Unlike map[string]any it keeps object members
// in insertion order and numbers as their literal text, so rendering the same
// record twice yields identical bytes.
type Value struct {
	Kind Kind
	Bool bool
	Num  json.Number
	Str  string
	Arr  []Value
	Obj  []Member
}

// Member is one key/value pair of a JSON object.
type Member struct {
	Key   string
	Value Value
}

// Get returns the member named key and whether it exists.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.Obj {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Truthy reports whether the value is non-empty in the sense the upstream
// producer uses: null, false, 0 and "" are falsy, everything else is truthy.
// Arrays and objects are always truthy, even when empty.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool
	case KindNumber:
		if f, err := v.Num.Float64(); err == nil {
			return f != 0
		}
		return true
	case KindString:
		return v.Str != ""
	default:
		return true
	}
}

// scalarText renders the value the way it would appear interpolated into the
// header line: strings unquoted, everything else as its JSON literal.
func (v Value) scalarText() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.Num.String()
	case KindString:
		return v.Str
	default:
		return v.encodeIndent(0)
	}
}

// parseValue decodes exactly one JSON value from raw. Trailing non-whitespace
// after the value is an error, mirroring a strict whole-line parse.
func parseValue(raw string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return Value{}, err
		}
		return Value{}, errTrailingData
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		if t == '{' {
			v := Value{Kind: KindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key := keyTok.(string)
				member, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				// duplicate keys keep their first position, last value wins
				replaced := false
				for i := range v.Obj {
					if v.Obj[i].Key == key {
						v.Obj[i].Value = member
						replaced = true
						break
					}
				}
				if !replaced {
					v.Obj = append(v.Obj, Member{Key: key, Value: member})
				}
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return v, nil
		}
		// '['
		v := Value{Kind: KindArray}
		for dec.More() {
			elem, err := decodeValue(dec)
			if err != nil {
				return Value{}, err
			}
			v.Arr = append(v.Arr, elem)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return Value{}, err
		}
		return v, nil
	case string:
		return Value{Kind: KindString, Str: t}, nil
	case json.Number:
		return Value{Kind: KindNumber, Num: t}, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	default: // nil
		return Value{Kind: KindNull}, nil
	}
}

const jsonIndent = "  "

// encodeIndent serializes the value as 2-space indented JSON, the form the
// flattening algorithm splits into lines. level is the starting nesting depth.
func (v Value) encodeIndent(level int) string {
	var sb strings.Builder
	v.writeIndent(&sb, level)
	return sb.String()
}

func (v Value) writeIndent(sb *strings.Builder, level int) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(v.Num.String())
	case KindString:
		writeQuoted(sb, v.Str)
	case KindArray:
		if len(v.Arr) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteString("[\n")
		for i, elem := range v.Arr {
			sb.WriteString(strings.Repeat(jsonIndent, level+1))
			elem.writeIndent(sb, level+1)
			if i < len(v.Arr)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Repeat(jsonIndent, level))
		sb.WriteByte(']')
	case KindObject:
		if len(v.Obj) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{\n")
		for i, m := range v.Obj {
			sb.WriteString(strings.Repeat(jsonIndent, level+1))
			writeQuoted(sb, m.Key)
			sb.WriteString(": ")
			m.Value.writeIndent(sb, level+1)
			if i < len(v.Obj)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Repeat(jsonIndent, level))
		sb.WriteByte('}')
	}
}

const hexDigits = "0123456789abcdef"

// writeQuoted writes s as a JSON string literal. Unlike encoding/json it does
// not escape HTML characters; this output is read by humans, not browsers.
func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[r>>4])
				sb.WriteByte(hexDigits[r&0xf])
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}
