package passgen

import (
	"fmt"
	"strings"
)

// Class is a character class a password can be required to contain.
type Class int

const (
	Lower Class = iota
	Upper
	Digit
	Symbol
)

// AllClasses lists every class in sampling order.
var AllClasses = [...]Class{Lower, Upper, Digit, Symbol}

const (
	lowerAlphabet  = "qwertyuiopasdfghjklzxcvbnm"
	upperAlphabet  = "QWERTYUIOPASDFGHJKLZXCVBNM"
	digitAlphabet  = "1234567890"
	symbolAlphabet = "`~!@#$%^&*()_+[]{}|;':\",./<>?"
)

type classInfo struct {
	name     string
	alphabet string
	weight   int
	// lo and hi bound the rune range used for classification. Symbol has no
	// range: anything outside the other ranges is a symbol.
	lo, hi rune
}

var classTable = [...]classInfo{
	Lower:  {name: "lower", alphabet: lowerAlphabet, weight: 3, lo: 'a', hi: 'z'},
	Upper:  {name: "upper", alphabet: upperAlphabet, weight: 3, lo: 'A', hi: 'Z'},
	Digit:  {name: "digits", alphabet: digitAlphabet, weight: 2, lo: '0', hi: '9'},
	Symbol: {name: "symbols", alphabet: symbolAlphabet, weight: 1},
}

// Alphabet returns the characters the class generates from, or "" for an
// unknown class.
func (c Class) Alphabet() string {
	if !c.valid() {
		return ""
	}
	return classTable[c].alphabet
}

// Weight returns the relative sampling weight of the class, or 0 for an
// unknown class.
func (c Class) Weight() int {
	if !c.valid() {
		return 0
	}
	return classTable[c].weight
}

// String returns the class name as used in flags, config keys and JSON.
func (c Class) String() string {
	if !c.valid() {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classTable[c].name
}

func (c Class) valid() bool { return c >= Lower && c <= Symbol }

// ParseClass resolves a class name. Singular forms are accepted too.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lower", "lowercase":
		return Lower, nil
	case "upper", "uppercase":
		return Upper, nil
	case "digit", "digits", "number", "numbers":
		return Digit, nil
	case "symbol", "symbols":
		return Symbol, nil
	}
	return 0, fmt.Errorf("unknown character class %q", s)
}

// Classify returns the class a rune is counted as when validating a password.
// Digits, ASCII upper and ASCII lower letters map to their classes; every
// other rune counts as a symbol, including symbols outside the generation
// alphabet.
func Classify(r rune) Class {
	for _, c := range [...]Class{Digit, Upper, Lower} {
		if info := classTable[c]; r >= info.lo && r <= info.hi {
			return c
		}
	}
	return Symbol
}

// ClassSet is a set of character classes.
type ClassSet uint8

// NewClassSet builds a set from the given classes.
func NewClassSet(classes ...Class) ClassSet {
	var s ClassSet
	for _, c := range classes {
		s = s.With(c)
	}
	return s
}

// With returns a copy of the set that includes c.
func (s ClassSet) With(c Class) ClassSet {
	if !c.valid() {
		return s
	}
	return s | 1<<uint(c)
}

// Has reports whether c is in the set.
func (s ClassSet) Has(c Class) bool { return c.valid() && s&(1<<uint(c)) != 0 }

// Len returns the number of classes in the set.
func (s ClassSet) Len() int {
	n := 0
	for _, c := range AllClasses {
		if s.Has(c) {
			n++
		}
	}
	return n
}

// Classes returns the members of the set in sampling order.
func (s ClassSet) Classes() []Class {
	out := make([]Class, 0, len(AllClasses))
	for _, c := range AllClasses {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s ClassSet) String() string {
	names := make([]string, 0, len(AllClasses))
	for _, c := range s.Classes() {
		names = append(names, c.String())
	}
	return strings.Join(names, ",")
}
