package ecs

import (
	"math/bits"
	"strings"
)

// MaxComponents is the number of distinct component types a ComponentRegistry can hold.
// It is also the width of every Signature.
const MaxComponents = 64

const signatureWords = (MaxComponents + 63) / 64

// lastWordMask keeps Flip from setting bits past MaxComponents.
var lastWordMask = func() uint64 {
	if rem := MaxComponents % 64; rem != 0 {
		return 1<<rem - 1
	}
	return ^uint64(0)
}()

// Signature is a fixed width bitset of component ids. It describes either the components
// an entity has or the components a query requires (or excludes, once flipped).
//
// Signature is a value type: assigning it copies the bits.
type Signature struct {
	words   [signatureWords]uint64
	flipped bool
}

// NewSignature returns a signature with the given component bits set.
func NewSignature(ids ...ComponentId) Signature {
	var s Signature
	for _, id := range ids {
		s.Set(int(id), true)
	}
	return s
}

func checkBit(index int) {
	if index < 0 || index >= MaxComponents {
		panic("signature index out of range")
	}
}

// Set sets or clears the bit at index.
func (s *Signature) Set(index int, value bool) {
	checkBit(index)
	if value {
		s.words[index>>6] |= 1 << (uint(index) & 63)
	} else {
		s.words[index>>6] &^= 1 << (uint(index) & 63)
	}
}

// ClearBit clears the bit at index.
func (s *Signature) ClearBit(index int) {
	s.Set(index, false)
}

// Test reports whether the bit at index is set.
func (s Signature) Test(index int) bool {
	checkBit(index)
	return s.words[index>>6]&(1<<(uint(index)&63)) != 0
}

// Clear zeroes every bit and resets the flipped flag.
func (s *Signature) Clear() {
	s.words = [signatureWords]uint64{}
	s.flipped = false
}

// Flip complements every bit and toggles WasFlipped.
func (s *Signature) Flip() {
	for i := range s.words {
		s.words[i] = ^s.words[i]
	}
	s.words[signatureWords-1] &= lastWordMask
	s.flipped = !s.flipped
}

// WasFlipped reports whether the signature has been flipped an odd number of times.
func (s Signature) WasFlipped() bool {
	return s.flipped
}

// Matches reports whether other contains every bit of s, that is (s & other) == s.
func (s Signature) Matches(other Signature) bool {
	for i := range s.words {
		if s.words[i]&other.words[i] != s.words[i] {
			return false
		}
	}
	return true
}

// Intersects reports whether s and other share at least one bit.
func (s Signature) Intersects(other Signature) bool {
	for i := range s.words {
		if s.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of s.
func (s Signature) Clone() Signature {
	return s
}

// IsZero reports whether no bits are set.
func (s Signature) IsZero() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of set bits.
func (s Signature) Count() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// ForEachSet calls fn with the index of every set bit in ascending order.
func (s Signature) ForEachSet(fn func(index int)) {
	for wi, w := range s.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			fn(wi*64 + tz)
			w &= w - 1
		}
	}
}

// String renders the signature as a binary string, lowest bit first.
func (s Signature) String() string {
	var b strings.Builder
	b.Grow(MaxComponents)
	for i := 0; i < MaxComponents; i++ {
		if s.Test(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
