package roster

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CompareFunc orders two display names, returning a negative, zero or positive value.
type CompareFunc func(a, b string) int

// BinaryCollation compares names byte-wise. It is deterministic regardless of locale data.
func BinaryCollation(a, b string) int {
	return strings.Compare(a, b)
}

// NewCollation returns a locale-aware comparison for tag. The returned function
// may be shared between goroutines.
func NewCollation(tag language.Tag) CompareFunc {
	var mu sync.Mutex
	c := collate.New(tag)
	return func(a, b string) int {
		mu.Lock()
		defer mu.Unlock()
		return c.CompareString(a, b)
	}
}

// NewGermanCollation sorts names the way German readers expect ("Özdemir" next to "Otto").
func NewGermanCollation() CompareFunc {
	return NewCollation(language.German)
}
