package llm

import (
	"encoding/json"
	"strings"
)

// Model responses wrap the JSON object in commentary more often than not, and
// the object itself is frequently malformed in a handful of recurring ways
// (single-quoted keys, literal newlines inside strings, stray escapes). The
// helpers here extract and repair instead of failing the document.

// ExtractJSONObject locates the first balanced {...} object in free text.
// Braces inside string literals (single- or double-quoted) are ignored.
func ExtractJSONObject(s string) (string, bool) {
	for start := 0; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}
		if obj, ok := balanceFrom(s, start); ok {
			return obj, true
		}
	}
	return "", false
}

func balanceFrom(s string, start int) (string, bool) {
	depth := 0
	inStr := false
	var quote byte
	for i := start; i < len(s); i++ {
		c := s[i]
		if inStr {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				inStr = false
			}
			continue
		}
		switch c {
		case '"', '\'':
			inStr, quote = true, c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// RepairJSON applies the known repair classes in one pass:
//   - single-quoted keys/values become double-quoted
//   - literal newlines/tabs inside string values collapse to spaces
//   - invalid backslash escapes lose the backslash (covers \[ and \])
func RepairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inStr := false
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inStr {
			switch c {
			case '"', '\'':
				inStr, quote = true, c
				b.WriteByte('"')
			case '\\':
				// stray escape outside a string (e.g. \[ or \]) — drop it
			default:
				b.WriteByte(c)
			}
			continue
		}
		switch {
		case c == quote:
			inStr = false
			b.WriteByte('"')
		case c == '\\' && i+1 < len(s):
			next := s[i+1]
			switch next {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
				b.WriteByte(c)
				b.WriteByte(next)
			case '\'':
				b.WriteByte('\'')
			default:
				b.WriteByte(next)
			}
			i++
		case c == '\n' || c == '\r' || c == '\t':
			b.WriteByte(' ')
		case c == '"': // double quote inside a single-quoted string
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// DecodeLenient finds the JSON object inside raw model output and decodes it
// into out, applying one repair pass when the direct parse fails.
func DecodeLenient(raw string, out any) error {
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		return ErrNoJSONObject
	}
	if err := json.Unmarshal([]byte(obj), out); err == nil {
		return nil
	}
	repaired := RepairJSON(obj)
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return &RepairFailedError{Cause: err}
	}
	return nil
}
