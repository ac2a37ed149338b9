package types

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// BitSetValue is an atom selection, or a bond selection when Bond is set.
// Bits is shared storage; Index narrows the value to a single ordinal
// ("as selected") when it is not Unselected.
type BitSetValue struct {
	Bits       *bitset.BitSet
	Bond       bool
	Associated *bitset.BitSet // atoms of a bond set, when known
	Index      int
}

// NewBitSet wraps bs as an unselected atom set
func NewBitSet(bs *bitset.BitSet) BitSetValue {
	if bs == nil {
		bs = bitset.New(0)
	}
	return BitSetValue{Bits: bs, Index: Unselected}
}

// NewBondSet wraps bs as an unselected bond set
func NewBondSet(bs *bitset.BitSet) BitSetValue {
	v := NewBitSet(bs)
	v.Bond = true
	return v
}

// BitSetOf builds an atom set from explicit ordinals
func BitSetOf(indexes ...int) BitSetValue {
	bs := bitset.New(0)
	for _, i := range indexes {
		bs.Set(uint(i))
	}
	return NewBitSet(bs)
}

// Type returns the type code for bit-sets
func (b BitSetValue) Type() TypeCode {
	return TYPE_BITSET
}

// IsSelected reports whether the value is narrowed to one ordinal
func (b BitSetValue) IsSelected() bool {
	return b.Index != Unselected
}

// Selected returns the effective set: the full storage when unselected,
// otherwise a fresh set holding only Index
func (b BitSetValue) Selected() *bitset.BitSet {
	if b.Index == Unselected {
		if b.Bits == nil {
			return bitset.New(0)
		}
		return b.Bits
	}
	bs := bitset.New(uint(b.Index + 1))
	if b.Index >= 0 {
		bs.Set(uint(b.Index))
	}
	return bs
}

// Cardinality counts the effective set
func (b BitSetValue) Cardinality() int {
	return int(b.Selected().Count())
}

// WithBits returns a value of the same flavor holding bs
func (b BitSetValue) WithBits(bs *bitset.BitSet) BitSetValue {
	return BitSetValue{Bits: bs, Bond: b.Bond, Associated: b.Associated, Index: Unselected}
}

// String returns ({0 2:5}) for atoms or [{0 2:5}] for bonds
func (b BitSetValue) String() string {
	s := EscapeBitSet(b.Selected())
	if b.Bond {
		return "[" + s[1:len(s)-1] + "]"
	}
	return s
}

// Equal compares set membership
func (b BitSetValue) Equal(other Value) bool {
	return AreEqual(b, other)
}

// Truthy is true for a non-empty selection
func (b BitSetValue) Truthy() bool {
	return b.Cardinality() != 0
}

// EscapeBitSet renders ({0 2:5}) with ranges collapsed
func EscapeBitSet(bs *bitset.BitSet) string {
	var sb strings.Builder
	sb.WriteString("({")
	first := true
	start, last := -1, -1
	flush := func() {
		if start < 0 {
			return
		}
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		sb.WriteString(strconv.Itoa(start))
		if last > start {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(last))
		}
	}
	if bs != nil {
		for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
			if int(i) == last+1 && start >= 0 {
				last = int(i)
				continue
			}
			flush()
			start, last = int(i), int(i)
		}
	}
	flush()
	sb.WriteString("})")
	return sb.String()
}

// SameBits compares membership ignoring storage length
func SameBits(a, b *bitset.BitSet) bool {
	if a == nil || b == nil {
		return (a == nil || a.None()) && (b == nil || b.None())
	}
	return a.SymmetricDifference(b).None()
}

// Complement returns the members of [0, n) not in bs
func Complement(bs *bitset.BitSet, n int) *bitset.BitSet {
	out := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		if bs == nil || !bs.Test(uint(i)) {
			out.Set(uint(i))
		}
	}
	return out
}

// Ordinals lists the members of bs in ascending order
func Ordinals(bs *bitset.BitSet) []int {
	if bs == nil {
		return nil
	}
	out := make([]int, 0, bs.Count())
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// BitSetLength is one past the highest member, 0 for an empty set
func BitSetLength(bs *bitset.BitSet) int {
	n := 0
	if bs == nil {
		return 0
	}
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		n = int(i) + 1
	}
	return n
}
