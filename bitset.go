package ecs

import "math/bits"

// wordBits is the width of one Bitset word. The teacher's mask dependency
// packs bits into 32-bit words (mask.Mask / mask.Mask256); this module's own
// Bitset keeps the same word size so component masks, entity membership
// sets, and id-pool bitsets all share one packing scheme.
const wordBits = 32

// Bitset is a fixed-size, word-packed bit array. It backs component masks
// (spec.md §4.1), archetype membership/entered/exited sets, and the query
// result pool.
type Bitset struct {
	size  int
	words []uint32
}

// NewBitset allocates a Bitset over size bits, all initially clear.
func NewBitset(size int) *Bitset {
	return &Bitset{
		size:  size,
		words: make([]uint32, wordCount(size)),
	}
}

// FromIDs builds a Bitset over size bits with a bit set at each given id.
func FromIDs(size int, ids ...int) *Bitset {
	b := NewBitset(size)
	for _, id := range ids {
		b.Set(id, true)
	}
	return b
}

func wordCount(size int) int {
	return (size + wordBits - 1) / wordBits
}

// Size returns the number of addressable bits.
func (b *Bitset) Size() int {
	return b.size
}

// Get returns the bit at index i. Out-of-range i is undefined, per
// spec.md §4.1 — callers are expected to stay within Size().
func (b *Bitset) Get(i int) bool {
	w, bit := i/wordBits, uint(i%wordBits)
	return b.words[w]&(1<<bit) != 0
}

// Set assigns the bit at index i and returns the receiver for chaining.
func (b *Bitset) Set(i int, v bool) *Bitset {
	w, bit := i/wordBits, uint(i%wordBits)
	if v {
		b.words[w] |= 1 << bit
	} else {
		b.words[w] &^= 1 << bit
	}
	return b
}

// Clear zeroes every word and returns the receiver.
func (b *Bitset) Clear() *Bitset {
	for i := range b.words {
		b.words[i] = 0
	}
	return b
}

// Popcount returns the exact number of set bits, using the hardware
// popcount via math/bits.
func (b *Bitset) Popcount() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount32(w)
	}
	return n
}

// IsEmpty reports whether no bit is set; it short-circuits on the first
// non-zero word instead of computing a full popcount.
func (b *Bitset) IsEmpty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// TruthyIndices returns the ascending indices of every set bit.
func (b *Bitset) TruthyIndices() []int {
	out := make([]int, 0, b.Popcount())
	for w, word := range b.words {
		for word != 0 {
			bit := bits.TrailingZeros32(word)
			out = append(out, w*wordBits+bit)
			word &= word - 1
		}
	}
	return out
}

// Words exposes the backing word slice for direct mask arithmetic.
func (b *Bitset) Words() []uint32 {
	return b.words
}

// Clone returns an independent copy of the receiver.
func (b *Bitset) Clone() *Bitset {
	out := &Bitset{size: b.size, words: make([]uint32, len(b.words))}
	copy(out.words, b.words)
	return out
}

// Or ORs other into the receiver in place, word by word. The two bitsets
// must share the same word count.
func (b *Bitset) Or(other *Bitset) *Bitset {
	for i := range b.words {
		b.words[i] |= other.words[i]
	}
	return b
}

// ContainsAll reports whether every bit set in sub is also set in the
// receiver: (b & sub) == sub.
func (b *Bitset) ContainsAll(sub *Bitset) bool {
	for i := range b.words {
		if b.words[i]&sub.words[i] != sub.words[i] {
			return false
		}
	}
	return true
}

// ContainsAny reports whether the receiver and other share any set bit.
func (b *Bitset) ContainsAny(other *Bitset) bool {
	for i := range b.words {
		if b.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

// ContainsNone reports whether the receiver and other share no set bit.
func (b *Bitset) ContainsNone(other *Bitset) bool {
	return !b.ContainsAny(other)
}

// stringify renders the backing words as a fixed-width hex key, used to
// de-duplicate archetypes and compile query ids (spec.md §4.4 Invariant A3,
// §4.5 compilation). Kept out of the public API: it exists purely as a map
// key, not a serialization format.
func (b *Bitset) stringify() string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 0, len(b.words)*8)
	for _, w := range b.words {
		for shift := 28; shift >= 0; shift -= 4 {
			buf = append(buf, hexDigits[(w>>uint(shift))&0xf])
		}
	}
	return string(buf)
}
