package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	ansiSample  = "\x1b[36;1mhttp://gpu-box:11434\x1b[0m returned \x1b[33m(12)\x1b[0m models"
	strippedOut = "http://gpu-box:11434 returned (12) models"
)

func TestStripAnsiCodes(t *testing.T) {
	assert.Equal(t, strippedOut, stripAnsiCodes(ansiSample))
	assert.Equal(t, "no escapes here", stripAnsiCodes("no escapes here"))
	assert.Equal(t, "", stripAnsiCodes(""))
}

func TestStripAnsiCodes_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"reset with no params", "a\x1b[mb", "ab"},
		{"lone escape kept", "a\x1bb", "a\x1bb"},
		{"escape at the end", "done\x1b", "done\x1b"},
		{"unterminated sequence dropped", "ok\x1b[38;5;", "ok"},
		{"back to back", "\x1b[1m\x1b[32mgreen\x1b[0m", "green"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripAnsiCodes(tt.input))
		})
	}
}

func BenchmarkStripAnsiCodes_Large(b *testing.B) {
	large := strings.Repeat(ansiSample, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stripAnsiCodes(large)
	}
}
