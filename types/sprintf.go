package types

import (
	"strconv"
	"strings"
)

// FormatArgs holds the fields extracted from one value for %-substitution:
// %d/%i read Int, %f Float, %e Double, %s Str, %p Point, %q Plane
type FormatArgs struct {
	Int    int
	Float  float64
	Double float64
	Str    string
	Point  *Point3Value
	Plane  *Point4Value
}

// Formatter performs the actual %-substitution
type Formatter func(format string, args FormatArgs) string

// Sprintf formats v with the default formatter. An array is formatted
// element by element and the lines joined with newlines.
func Sprintf(format string, v Value) string {
	return SprintfWith(format, v, FormatFields)
}

// SprintfWith extracts only the fields the format asks for and hands them
// to f
func SprintfWith(format string, v Value, f Formatter) string {
	if v == nil {
		return format
	}
	if l, ok := v.(*ListValue); ok {
		lines := make([]string, l.Len())
		for i, e := range l.Elements() {
			lines[i] = f(format, extractArgs(format, e))
		}
		return strings.Join(lines, "\n")
	}
	return f(format, extractArgs(format, v))
}

func extractArgs(format string, v Value) FormatArgs {
	var a FormatArgs
	if strings.ContainsAny(format, "di") {
		a.Int = AsInt(v)
	}
	if strings.Contains(format, "f") {
		a.Float = AsFloat(v)
	}
	if strings.Contains(format, "e") {
		a.Double = AsFloat(v)
	}
	if strings.Contains(format, "s") {
		a.Str = AsString(v)
	}
	if strings.Contains(format, "p") {
		if p, ok := v.(Point3Value); ok {
			a.Point = &p
		}
	}
	if strings.Contains(format, "q") {
		if q, ok := v.(Point4Value); ok {
			a.Plane = &q
		}
	}
	return a
}

// FormatFields is the default formatter. It understands %[-][0][width]
// [.precision] followed by d, i, f, e, s, p or q, and %% for a literal
// percent sign. Unknown or unfilled directives are left as written.
func FormatFields(format string, a FormatArgs) string {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			sb.WriteByte('%')
			i++
			continue
		}
		j := i + 1
		left, zero := false, false
		for j < len(format) && (format[j] == '-' || format[j] == '0') {
			if format[j] == '-' {
				left = true
			} else {
				zero = true
			}
			j++
		}
		width := 0
		for j < len(format) && format[j] >= '0' && format[j] <= '9' {
			width = width*10 + int(format[j]-'0')
			j++
		}
		prec := -1
		if j < len(format) && format[j] == '.' {
			j++
			prec = 0
			for j < len(format) && format[j] >= '0' && format[j] <= '9' {
				prec = prec*10 + int(format[j]-'0')
				j++
			}
		}
		if j >= len(format) {
			sb.WriteString(format[i:])
			break
		}
		var s string
		ok := true
		switch format[j] {
		case 'd', 'i':
			s = strconv.Itoa(a.Int)
		case 'f':
			s = strconv.FormatFloat(a.Float, 'f', prec, 64)
		case 'e':
			s = strconv.FormatFloat(a.Double, 'e', prec, 64)
		case 's':
			s = a.Str
			if prec >= 0 && prec < len(s) {
				s = s[:prec]
			}
		case 'p':
			if a.Point == nil {
				ok = false
				break
			}
			s = formatComponents(prec, width, a.Point.X, a.Point.Y, a.Point.Z)
			width = 0
		case 'q':
			if a.Plane == nil {
				ok = false
				break
			}
			s = formatComponents(prec, width, a.Plane.X, a.Plane.Y, a.Plane.Z, a.Plane.W)
			width = 0
		default:
			ok = false
		}
		if !ok {
			sb.WriteString(format[i : j+1])
			i = j
			continue
		}
		sb.WriteString(pad(s, width, left, zero))
		i = j
	}
	return sb.String()
}

func formatComponents(prec, width int, vals ...float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = pad(strconv.FormatFloat(v, 'f', prec, 64), width, false, false)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func pad(s string, width int, left, zero bool) string {
	if len(s) >= width {
		return s
	}
	fill := strings.Repeat(" ", width-len(s))
	switch {
	case left:
		return s + fill
	case zero:
		fill = strings.Repeat("0", width-len(s))
		if strings.HasPrefix(s, "-") {
			return "-" + fill + s[1:]
		}
		return fill + s
	}
	return fill + s
}
