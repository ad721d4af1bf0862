package normalize

import "strings"

// StripDelimiters removes every line-comment (//) and block-comment (/* and */)
// marker from s, scanning left to right without overlap. Everything else is kept
// byte for byte, including a lone '/' or '*'
func StripDelimiters(s string) string {
	if !strings.Contains(s, "//") && !strings.Contains(s, "/*") && !strings.Contains(s, "*/") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if i+1 < len(s) && isDelimiter(s[i], s[i+1]) {
			i += 2
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func isDelimiter(a, b byte) bool {
	return (a == '/' && (b == '/' || b == '*')) || (a == '*' && b == '/')
}
