package types

import (
	"strings"

	"github.com/kr/text"
)

// FormatOptions controls the structured pretty-printer
type FormatOptions struct {
	Escaped  bool // quote strings (JSON-like output)
	Compact  bool // keep everything on one line
	MaxDepth int  // 0 means unlimited
}

// Format renders v, descending into lists, maps and contexts. A container
// met again while it is still being printed is labelled rather than
// expanded.
func Format(v Value, opts FormatOptions) string {
	f := &formatter{opts: opts, active: make(map[any]bool)}
	return f.format(v, 0)
}

type formatter struct {
	opts   FormatOptions
	active map[any]bool
}

func (f *formatter) scalar(v Value) string {
	if f.opts.Escaped {
		return Escape(v)
	}
	return AsString(v)
}

func (f *formatter) circular(v Value) string {
	if f.opts.Escaped {
		if v.Type() == TYPE_LIST {
			return "[]"
		}
		return "{}"
	}
	if n, ok := v.(Named); ok && n.Name() != "" {
		return "<" + n.Name() + ">"
	}
	return "<circular reference>"
}

func (f *formatter) format(v Value, depth int) string {
	var key any
	switch x := v.(type) {
	case *ListValue:
		key = x
	case *MapValue:
		key = x
	case *ContextValue:
		key = x.Vars
	default:
		return f.scalar(v)
	}
	if f.active[key] {
		return f.circular(v)
	}
	if f.opts.MaxDepth > 0 && depth >= f.opts.MaxDepth {
		if v.Type() == TYPE_LIST {
			return "[...]"
		}
		return "{...}"
	}
	f.active[key] = true
	defer delete(f.active, key)

	switch x := v.(type) {
	case *ListValue:
		items := make([]string, x.Len())
		for i, e := range x.Elements() {
			items[i] = f.format(e, depth+1)
		}
		return f.block("[", "]", items)
	case *MapValue:
		return f.entries(x, depth)
	case *ContextValue:
		return f.entries(x.Vars, depth)
	}
	return ""
}

func (f *formatter) entries(m *MapValue, depth int) string {
	keys := m.Keys()
	items := make([]string, len(keys))
	for i, k := range keys {
		e, _ := m.Get(k)
		items[i] = EscapeString(k) + ": " + f.format(e, depth+1)
	}
	return f.block("{", "}", items)
}

func (f *formatter) block(open, close string, items []string) string {
	if len(items) == 0 {
		return open + close
	}
	if f.opts.Compact {
		return open + " " + strings.Join(items, ", ") + " " + close
	}
	return open + "\n" + text.Indent(strings.Join(items, ",\n"), "  ") + "\n" + close
}
