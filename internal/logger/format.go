package logger

import "strings"

const escapeByte = '\x1b'

// stripAnsiCodes removes CSI sequences (ESC [ ... final letter) so styled
// server names and counts land in the log file as plain text. Anything that
// isn't a CSI sequence, including a lone ESC, is kept.
func stripAnsiCodes(s string) string {
	if strings.IndexByte(s, escapeByte) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != escapeByte || i+1 >= len(s) || s[i+1] != '[' {
			b.WriteByte(s[i])
			continue
		}

		// skip parameters up to and including the final letter
		i += 2
		for i < len(s) && !isFinalByte(s[i]) {
			i++
		}
	}

	return b.String()
}

func isFinalByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
