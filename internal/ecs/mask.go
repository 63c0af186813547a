package ecs

import "math/bits"

// MaxKinds is the number of distinct component kinds a World can hold.
const MaxKinds = 64

// Kind identifies a component column.
type Kind uint8

// Mask is a set of component kinds.
type Mask uint64

// MaskOf builds a mask from kinds.
func MaskOf(kinds ...Kind) Mask {
	var m Mask
	for _, k := range kinds {
		m = m.With(k)
	}
	return m
}

func (m Mask) With(k Kind) Mask    { return m | Mask(1)<<k }
func (m Mask) Without(k Kind) Mask { return m &^ (Mask(1) << k) }
func (m Mask) Has(k Kind) bool     { return m&(Mask(1)<<k) != 0 }

// Contains reports whether every kind in sub is also in m.
func (m Mask) Contains(sub Mask) bool { return m&sub == sub }

func (m Mask) Len() int { return bits.OnesCount64(uint64(m)) }

// Kinds lists the kinds in ascending order.
func (m Mask) Kinds() []Kind {
	kinds := make([]Kind, 0, m.Len())
	for v := uint64(m); v != 0; v &= v - 1 {
		kinds = append(kinds, Kind(bits.TrailingZeros64(v)))
	}
	return kinds
}
