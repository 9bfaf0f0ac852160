package rulematch

import (
	"github.com/bits-and-blooms/bitset"
)

// A suffixSet holds the distinct unconsumed tails of one message.
//
// Every tail of a fixed message is identified by the offset it starts at, so the
// set is a bitset of offsets. Bits are stored relative to base, the lowest offset
// the set may hold, so a set only grows to the span of offsets it contains.
type suffixSet struct {
	base int
	bits *bitset.BitSet
}

// newSuffixSet returns a set holding offsets no lower than base.
func newSuffixSet(base int, offsets ...int) suffixSet {
	s := suffixSet{base: base, bits: bitset.New(0)}
	for _, offset := range offsets {
		s.add(offset)
	}
	return s
}

func (s suffixSet) add(offset int) {
	if offset < s.base {
		panicf("offset %d below suffix set base %d", offset, s.base)
	}
	s.bits.Set(uint(offset - s.base))
}

func (s suffixSet) has(offset int) bool {
	return offset >= s.base && s.bits.Test(uint(offset-s.base))
}

func (s suffixSet) empty() bool { return s.bits.None() }

func (s suffixSet) len() int { return int(s.bits.Count()) }

// min returns the lowest offset in a non-empty set.
func (s suffixSet) min() int {
	i, _ := s.bits.NextSet(0)
	return int(i) + s.base
}

func (s suffixSet) union(other suffixSet) {
	if other.base == s.base {
		s.bits.InPlaceUnion(other.bits)
		return
	}
	other.each(s.add)
}

// each calls fn for every offset in ascending order.
func (s suffixSet) each(fn func(offset int)) {
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		fn(int(i) + s.base)
	}
}

func (s suffixSet) offsets() []int {
	out := make([]int, 0, s.len())
	s.each(func(offset int) { out = append(out, offset) })
	return out
}
