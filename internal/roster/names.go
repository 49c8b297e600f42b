package roster

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitName splits a display name into first and last name. Both
// "Last, First" and "First Last" are understood; a single word is treated
// as the last name.
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if before, after, ok := strings.Cut(full, ","); ok {
		return strings.TrimSpace(after), strings.TrimSpace(before)
	}
	parts := strings.Fields(full)
	if len(parts) >= 2 {
		return parts[0], strings.Join(parts[1:], " ")
	}
	return "", full
}

// Initials returns two upper-case letters for an avatar, "??" when nothing is known.
func Initials(first, last string) string {
	switch {
	case first != "" && last != "":
		return upperPrefix(first, 1) + upperPrefix(last, 1)
	case last != "":
		return upperPrefix(last, 2)
	case first != "":
		return upperPrefix(first, 2)
	default:
		return "??"
	}
}

func upperPrefix(s string, n int) string {
	var b strings.Builder
	for i := 0; i < n && s != ""; i++ {
		r, size := utf8.DecodeRuneInString(s)
		b.WriteRune(unicode.ToUpper(r))
		s = s[size:]
	}
	return b.String()
}
