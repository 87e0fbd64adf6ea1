package t9

import "unicode"

// Taps reverse-maps a character to the key index and tap count that
// produce it. Lowercase letters match their uppercase candidates.
// Returns ok=false for characters no key can produce.
func Taps(r rune) (index, count int, ok bool) {
	r = unicode.ToUpper(r)
	for idx, chars := range candidates {
		for i, c := range chars {
			if c == r {
				return idx, i + 1, true
			}
		}
	}
	return 0, 0, false
}
