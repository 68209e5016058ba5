package game

import "github.com/lixenwraith/twister/keyboard"

// HeldSet is the set of keys the player is holding, in press order
// Oldest-first order matters: forced releases draw from the front
type HeldSet struct {
	keys []keyboard.Key
}

// Add appends k if absent
func (h *HeldSet) Add(k keyboard.Key) {
	if h.Has(k) {
		return
	}
	h.keys = append(h.keys, k)
}

// Remove deletes k, returns false if it was not held
func (h *HeldSet) Remove(k keyboard.Key) bool {
	for i, x := range h.keys {
		if x == k {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports membership
func (h *HeldSet) Has(k keyboard.Key) bool {
	for _, x := range h.keys {
		if x == k {
			return true
		}
	}
	return false
}

// Len returns the number of held keys
func (h *HeldSet) Len() int { return len(h.keys) }

// Clear drops every key
func (h *HeldSet) Clear() { h.keys = h.keys[:0] }

// Oldest returns up to n earliest-held keys; the slice aliases internal storage
func (h *HeldSet) Oldest(n int) []keyboard.Key {
	if n > len(h.keys) {
		n = len(h.keys)
	}
	return h.keys[:n]
}

// Keys returns the held keys in press order; the slice aliases internal storage
func (h *HeldSet) Keys() []keyboard.Key { return h.keys }

// Copy returns an independent copy of the held keys
func (h *HeldSet) Copy() []keyboard.Key {
	out := make([]keyboard.Key, len(h.keys))
	copy(out, h.keys)
	return out
}
