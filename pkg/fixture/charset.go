package fixture

import "strings"

// Charsets for [WithCharset].
var (
	PrintableASCII = runeRange(' ', '~')
	Lowercase      = runeRange('a', 'z')
	Digits         = runeRange('0', '9')
	Alphanumeric   = runeRange('A', 'Z') + Lowercase + Digits
	Hex            = Digits + runeRange('a', 'f')
)

func runeRange(from, to rune) string {
	var sb strings.Builder

	for r := from; r <= to; r++ {
		sb.WriteRune(r)
	}

	return sb.String()
}
