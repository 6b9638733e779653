package normalize

import "strings"

// foldConfusables maps ASCII digits and symbols commonly used as letter
// stand-ins ("paypa1", "g00gle", "p@ssword") onto their letters. The
// output has the same byte length as the input, so a span found on the
// shadow is valid on the canonical string too.
func foldConfusables(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '0':
			b.WriteRune('o')
		case '1':
			b.WriteRune('l')
		case '3':
			b.WriteRune('e')
		case '4', '@':
			b.WriteRune('a')
		case '5', '$':
			b.WriteRune('s')
		case '7':
			b.WriteRune('t')
		case '8':
			b.WriteRune('b')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
