// Package usage provides the per-attempt usage bitmaps of the planner.
package usage

import "math/bits"

// Bitmap is a fixed-length set of flags packed into uint64 words.
// One bit per plane, group or layer. It is not safe for concurrent use;
// a planning attempt is single-threaded.
//
// Resize keeps the backing words when the capacity suffices, so a Bitmap
// reused across frames stops allocating once it has seen the largest frame.
type Bitmap struct {
	words []uint64
	n     int
}

// Resize sets the length to n and clears every bit.
func (b *Bitmap) Resize(n int) {
	if n < 0 {
		n = 0
	}
	need := (n + 63) / 64 // Ceiling division
	if cap(b.words) < need {
		b.words = make([]uint64, need)
	} else {
		b.words = b.words[:need]
	}
	b.n = n
	b.Reset()
}

// Len returns the number of bits.
func (b *Bitmap) Len() int { return b.n }

// Set sets bit i. Out-of-range indices are ignored.
func (b *Bitmap) Set(i int) {
	if i < 0 || i >= b.n {
		return
	}
	b.words[i/64] |= 1 << (i & 63)
}

// Clear clears bit i. Out-of-range indices are ignored.
func (b *Bitmap) Clear(i int) {
	if i < 0 || i >= b.n {
		return
	}
	b.words[i/64] &^= 1 << (i & 63)
}

// Test reports whether bit i is set. Out-of-range indices report false.
func (b *Bitmap) Test(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return b.words[i/64]&(1<<(i&63)) != 0
}

// Reset clears every bit.
func (b *Bitmap) Reset() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// Count returns the number of set bits.
func (b *Bitmap) Count() int {
	count := 0
	for _, w := range b.words {
		count += bits.OnesCount64(w)
	}
	return count
}

// Empty reports whether no bit is set.
func (b *Bitmap) Empty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// CopyFrom makes b an exact copy of o, reusing b's words when possible.
func (b *Bitmap) CopyFrom(o *Bitmap) {
	if cap(b.words) < len(o.words) {
		b.words = make([]uint64, len(o.words))
	} else {
		b.words = b.words[:len(o.words)]
	}
	copy(b.words, o.words)
	b.n = o.n
}

// ForEach calls fn for each set bit in ascending order.
func (b *Bitmap) ForEach(fn func(i int)) {
	for wi, w := range b.words {
		for w != 0 {
			bi := bits.TrailingZeros64(w)
			fn(wi*64 + bi)
			w &^= 1 << bi
		}
	}
}
