package generate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// quoteC renders a decoded string as a C string literal.  Control characters
// without a short escape and bytes that aren't part of valid UTF-8 are written
// as three digit octal escapes so that a following digit can't extend them.
func quoteC(s string) string {
	sb := strings.Builder{}
	sb.WriteRune('"')

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			switch {
			case c < 0x20 || c == 0x7f:
				fmt.Fprintf(&sb, "\\%03o", c)
			case c < utf8.RuneSelf:
				sb.WriteByte(c)
			default:
				// valid UTF-8 sequences pass through untouched; stray bytes from
				// octal or hex escapes are escaped again
				if r, size := utf8.DecodeRuneInString(s[i:]); r != utf8.RuneError {
					sb.WriteString(s[i : i+size])
					i += size - 1
				} else {
					fmt.Fprintf(&sb, "\\%03o", c)
				}
			}
		}
	}

	sb.WriteRune('"')
	return sb.String()
}
