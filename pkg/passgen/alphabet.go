package passgen

// segment is the contiguous slice of the weighted index space owned by one
// class. Indices [start, start+len(alphabet)*weight) map to that class.
type segment struct {
	class    Class
	alphabet string
	weight   int
	start    int
}

func (s segment) size() int { return len(s.alphabet) * s.weight }

// WeightedAlphabet is a virtual index space over the enabled classes. Each
// character of a class occupies Weight() consecutive indices, so drawing a
// uniform index selects a class in proportion to len(alphabet)*weight and a
// character uniformly within that class.
type WeightedAlphabet struct {
	segments []segment
	size     int
}

// NewWeightedAlphabet lays out the classes of set in sampling order.
func NewWeightedAlphabet(set ClassSet) WeightedAlphabet {
	var wa WeightedAlphabet
	for _, c := range set.Classes() {
		seg := segment{
			class:    c,
			alphabet: c.Alphabet(),
			weight:   c.Weight(),
			start:    wa.size,
		}
		wa.segments = append(wa.segments, seg)
		wa.size += seg.size()
	}
	return wa
}

// Len returns the size of the index space. It is zero for an empty set.
func (wa WeightedAlphabet) Len() int { return wa.size }

// At maps an index in [0, Len()) to its character and class.
// It panics if idx is out of range.
func (wa WeightedAlphabet) At(idx int) (byte, Class) {
	if idx < 0 || idx >= wa.size {
		panic("passgen: weighted alphabet index out of range")
	}
	for _, seg := range wa.segments {
		if idx < seg.start+seg.size() {
			return seg.alphabet[(idx-seg.start)/seg.weight], seg.class
		}
	}
	panic("unreachable")
}

// Contains reports whether b can be produced by the alphabet.
func (wa WeightedAlphabet) Contains(b byte) bool {
	for _, seg := range wa.segments {
		for i := 0; i < len(seg.alphabet); i++ {
			if seg.alphabet[i] == b {
				return true
			}
		}
	}
	return false
}
