package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSprintf(t *testing.T) {
	tests := []struct {
		format string
		val    Value
		want   string
	}{
		{"%d atoms", NewFloat(12.7), "12 atoms"},
		{"%5.2f", NewFloat(3.14159), " 3.14"},
		{"%-6s|", NewStr("ab"), "ab    |"},
		{"%05d", NewInt(-42), "-0042"},
		{"%s", NewInt(8), "8"},
		{"%.1p", NewPoint3(1, 2, 3), "{1.0 2.0 3.0}"},
		{"%.0q", NewPoint4(1, 0, 0, 2), "{1 0 0 2}"},
		{"%p", NewInt(1), "%p"},
		{"100%%", NewInt(1), "100%"},
		{"%.2e", NewFloat(1234.5), "1.23e+03"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, Sprintf(tt.format, tt.val))
		})
	}
}

func TestSprintfArray(t *testing.T) {
	l := NewList([]Value{NewInt(1), NewInt(2)})
	assert.Equal(t, "[1]\n[2]", Sprintf("[%d]", l))
}

func TestSprintfCustomFormatter(t *testing.T) {
	var seen FormatArgs
	out := SprintfWith("%s", NewStr("x"), func(format string, a FormatArgs) string {
		seen = a
		return "ok"
	})
	assert.Equal(t, "ok", out)
	assert.Equal(t, "x", seen.Str)
}
