package syntax

import (
	"fmt"
	"strings"
)

// simpleEscapes maps the character after a `\` to the byte it stands for.  `\e`
// is the GNU escape for ESC.
var simpleEscapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'e':  0x1b,
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'?':  '?',
}

// UnescapeString decodes the C escape sequences of a string literal's text.
// Octal escapes take up to three digits and hex escapes up to two; both must
// fit in a byte.  The result is a byte string.
func UnescapeString(text string) (string, error) {
	if strings.IndexByte(text, '\\') == -1 {
		return text, nil
	}

	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			sb.WriteByte(text[i])
			continue
		}

		i++
		if i == len(text) {
			return "", fmt.Errorf("unterminated escape sequence")
		}

		c := text[i]
		if b, ok := simpleEscapes[c]; ok {
			sb.WriteByte(b)
			continue
		}

		switch {
		case isOctalDigit(c):
			n, end := 0, i
			for ; end < len(text) && end < i+3 && isOctalDigit(text[end]); end++ {
				n = n*8 + int(text[end]-'0')
			}

			if n > 0xff {
				return "", fmt.Errorf("octal escape `\\%s` is out of range", text[i:end])
			}

			sb.WriteByte(byte(n))
			i = end - 1
		case c == 'x':
			n, end := 0, i+1
			for ; end < len(text) && end < i+3 && hexValue(text[end]) >= 0; end++ {
				n = n*16 + hexValue(text[end])
			}

			if end == i+1 {
				return "", fmt.Errorf("`\\x` used with no following hex digits")
			}

			sb.WriteByte(byte(n))
			i = end - 1
		default:
			return "", fmt.Errorf("unknown escape sequence `\\%c`", c)
		}
	}

	return sb.String(), nil
}

func isOctalDigit(c byte) bool {
	return '0' <= c && c <= '7'
}

// hexValue returns the value of a hex digit or -1
func hexValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}

	return -1
}
