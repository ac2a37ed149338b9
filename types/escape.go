package types

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Escape returns the escaped literal form of v: strings are quoted, other
// scalars use their default form and containers the escaped pretty form.
// Unescape reverses it for scalars, points, planes and bit-sets.
func Escape(v Value) string {
	switch x := v.(type) {
	case nil:
		return `""`
	case StrValue:
		return EscapeString(x.val)
	case *ListValue, *MapValue, *ContextValue:
		return Format(v, FormatOptions{Escaped: true, Compact: true})
	}
	return v.String()
}

// EscapeString quotes s, escaping quotes, backslashes and control
// characters
func EscapeString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
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
		default:
			if r < 0x20 {
				sb.WriteString(`\u`)
				h := strconv.FormatInt(int64(r), 16)
				sb.WriteString(strings.Repeat("0", 4-len(h)) + h)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// UnescapeString removes surrounding quotes and resolves escapes
func UnescapeString(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '\\' || i+1 >= len(rs) {
			sb.WriteRune(rs[i])
			continue
		}
		i++
		switch rs[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			if i+4 < len(rs) {
				if n, err := strconv.ParseUint(string(rs[i+1:i+5]), 16, 32); err == nil {
					sb.WriteRune(rune(n))
					i += 4
					continue
				}
			}
			sb.WriteRune('u')
		default:
			sb.WriteRune(rs[i])
		}
	}
	return sb.String()
}

// Unescape parses the escaped literal form produced by Escape. Text that
// is not a recognized literal comes back as a string.
func Unescape(text string) Value {
	s := strings.TrimSpace(text)
	switch {
	case s == "":
		return EmptyStr
	case len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
		return NewStr(UnescapeString(s))
	case s == "true":
		return True
	case s == "false":
		return False
	case strings.HasPrefix(s, "({") && strings.HasSuffix(s, "})"):
		if bs, ok := parseBitSet(s[2 : len(s)-2]); ok {
			return NewBitSet(bs)
		}
	case strings.HasPrefix(s, "[{") && strings.HasSuffix(s, "}]"):
		if bs, ok := parseBitSet(s[2 : len(s)-2]); ok {
			return NewBondSet(bs)
		}
	case s[0] == '{' && s[len(s)-1] == '}':
		if v, ok := parseTuple(s[1 : len(s)-1]); ok {
			return v
		}
	default:
		if n, err := strconv.Atoi(s); err == nil {
			return NewInt(n)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return NewFloat(f)
		}
		switch s {
		case "NaN", "Infinity", "-Infinity":
			return NewFloat(ParseFloat(s))
		}
	}
	return NewStr(text)
}

// ParseBitSet reads the inside of ({0 2:5})
func ParseBitSet(s string) (*bitset.BitSet, bool) {
	return parseBitSet(s)
}

func parseBitSet(s string) (*bitset.BitSet, bool) {
	bs := bitset.New(0)
	for _, f := range strings.Fields(s) {
		lo, hi, found := strings.Cut(f, ":")
		a, err := strconv.Atoi(lo)
		if err != nil || a < 0 {
			return nil, false
		}
		b := a
		if found {
			if b, err = strconv.Atoi(hi); err != nil || b < a {
				return nil, false
			}
		}
		for i := a; i <= b; i++ {
			bs.Set(uint(i))
		}
	}
	return bs, true
}

func parseTuple(s string) (Value, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 3 && len(fields) != 4 {
		return nil, false
	}
	fs := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			switch f {
			case "NaN", "Infinity", "-Infinity":
				v = ParseFloat(f)
			default:
				return nil, false
			}
		}
		fs[i] = v
	}
	if len(fs) == 3 {
		return NewPoint3(fs[0], fs[1], fs[2]), true
	}
	return NewPoint4(fs[0], fs[1], fs[2], fs[3]), true
}
