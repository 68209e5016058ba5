// Package keyboard models the physical layout of the selectable keys and picks
// targets biased away from keys the player already holds
package keyboard

import (
	"github.com/lixenwraith/twister/parameter"
)

// Key is a normalized logical key: an uppercase ASCII letter or a digit
// Zero value means no key
type Key byte

// None is the absent key
const None Key = 0

// String returns the key glyph
func (k Key) String() string {
	if k == None {
		return ""
	}
	return string(rune(k))
}

// Valid reports whether k belongs to the full alphabet
func (k Key) Valid() bool {
	return (k >= 'A' && k <= 'Z') || (k >= '0' && k <= '9')
}

// Normalize maps a rune from an input event to a Key
// Lowercase letters fold to uppercase; anything outside A-Z, 0-9 is rejected
func Normalize(r rune) (Key, bool) {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	k := Key(r)
	if r > 0x7f || !k.Valid() {
		return None, false
	}
	return k, true
}

// DefaultPool returns the full alphabet in canonical order
func DefaultPool() []Key {
	pool, _ := ParsePool(parameter.KeyPool)
	return pool
}

// ParsePool converts a pool string to keys, rejecting invalid and duplicate entries
func ParsePool(s string) ([]Key, bool) {
	pool := make([]Key, 0, len(s))
	seen := make(map[Key]bool, len(s))
	for _, r := range s {
		k, ok := Normalize(r)
		if !ok || seen[k] {
			return nil, false
		}
		seen[k] = true
		pool = append(pool, k)
	}
	return pool, len(pool) > 0
}
