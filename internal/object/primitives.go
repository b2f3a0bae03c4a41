package object

import (
	"hash/fnv"
	"math"
	"math/big"
	"strconv"
)

// Unit is the single-value type: compares equal only to itself, and is falsy.
type Unit struct{ Base }

var TheUnit = &Unit{Base{Name: "unit"}}

func (u *Unit) ToString() (string, *RuntimeError) { return "unit", nil }
func (u *Unit) Truthy() bool                      { return false }
func (u *Unit) Hash() (uint64, *RuntimeError)      { return 0, nil }
func (u *Unit) Clone() (Object, *RuntimeError)     { return u, nil }

// Bool wraps a boolean.
type Bool struct {
	Base
	Val bool
}

func NewBool(v bool) *Bool { return &Bool{Base{Name: "boolean"}, v} }

func (b *Bool) ToString() (string, *RuntimeError) { return strconv.FormatBool(b.Val), nil }
func (b *Bool) Truthy() bool                      { return b.Val }
func (b *Bool) Clone() (Object, *RuntimeError)     { return NewBool(b.Val), nil }
func (b *Bool) Hash() (uint64, *RuntimeError) {
	if b.Val {
		return 1, nil
	}
	return 0, nil
}

// Int is an arbitrary-precision integer (spec §3: "Integer (arbitrary precision)").
// Arithmetic never overflows; ToInt64 is the explicit narrowing used by contexts that
// need a machine-width value (slot indices, slicing arithmetic) and reports
// IntegerTooBig when the value does not fit.
type Int struct {
	Base
	Val *big.Int
}

func NewInt(v int64) *Int { return &Int{Base{Name: "int"}, big.NewInt(v)} }

func NewBigInt(v *big.Int) *Int { return &Int{Base{Name: "int"}, v} }

func (i *Int) ToString() (string, *RuntimeError) { return i.Val.String(), nil }
func (i *Int) Truthy() bool                      { return i.Val.Sign() != 0 }
func (i *Int) Clone() (Object, *RuntimeError) {
	return &Int{Base{Name: "int"}, new(big.Int).Set(i.Val)}, nil
}
func (i *Int) Hash() (uint64, *RuntimeError) {
	h := fnv.New64a()
	h.Write(i.Val.Bytes())
	return h.Sum64(), nil
}

// ToInt64 narrows the arbitrary-precision value to a machine int64.
func (i *Int) ToInt64() (int64, *RuntimeError) {
	if !i.Val.IsInt64() {
		return 0, NewIntegerTooBig("integer %s does not fit in a machine word", i.Val.String())
	}
	return i.Val.Int64(), nil
}

// Float is an IEEE-754 double (spec §4.1: "Float arithmetic is IEEE-754 double").
type Float struct {
	Base
	Val float64
}

func NewFloat(v float64) *Float { return &Float{Base{Name: "float"}, v} }

func (f *Float) ToString() (string, *RuntimeError) {
	return strconv.FormatFloat(f.Val, 'g', -1, 64), nil
}
func (f *Float) Truthy() bool                  { return f.Val != 0 }
func (f *Float) Clone() (Object, *RuntimeError) { return NewFloat(f.Val), nil }
func (f *Float) Hash() (uint64, *RuntimeError) {
	if f.Val == 0 {
		return 0, nil // 0.0 and -0.0 are Equal, so they must hash the same
	}
	return math.Float64bits(f.Val), nil
}

// Char is a single Unicode scalar value.
type Char struct {
	Base
	Val rune
}

func NewChar(r rune) *Char { return &Char{Base{Name: "char"}, r} }

func (c *Char) ToString() (string, *RuntimeError) { return string(c.Val), nil }
func (c *Char) Truthy() bool                      { return !isSpace(c.Val) }
func (c *Char) Clone() (Object, *RuntimeError)     { return NewChar(c.Val), nil }
func (c *Char) Hash() (uint64, *RuntimeError)      { return uint64(c.Val), nil }

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// String is mutable (via index-assignment) until locked; byte-indexed (spec Open
// Question resolved in DESIGN.md: byte positions throughout, matching `length`).
type String struct {
	Base
	Borrow
	Val []byte
}

func NewString(s string) *String {
	return &String{Base: Base{Name: "string"}, Val: []byte(s)}
}

func (s *String) ToString() (string, *RuntimeError) { return string(s.Val), nil }
func (s *String) Truthy() bool                      { return len(s.Val) != 0 }
func (s *String) Clone() (Object, *RuntimeError) {
	cp := make([]byte, len(s.Val))
	copy(cp, s.Val)
	return &String{Base: Base{Name: "string"}, Val: cp}, nil
}
func (s *String) Hash() (uint64, *RuntimeError) {
	if !s.Locked() {
		return 0, NewTypeError("string must be locked before use as a hashable")
	}
	h := fnv.New64a()
	h.Write(s.Val)
	return h.Sum64(), nil
}

func (s *String) Length() int { return len(s.Val) }

func (s *String) IndexGet(key Object) (Object, *RuntimeError) {
	idx, ok := key.(*Int)
	if !ok {
		return nil, NewTypeError("string indices must be int, got %s", key.TypeName())
	}
	i, err := idx.ToInt64()
	if err != nil {
		return nil, err
	}
	pos, err := normalizeIndex(i, len(s.Val))
	if err != nil {
		return nil, err
	}
	return NewChar(rune(s.Val[pos])), nil
}

func (s *String) IndexSet(key Object, val Object) *RuntimeError {
	if err := s.CheckWrite(); err != nil {
		return err
	}
	idx, ok := key.(*Int)
	if !ok {
		return NewTypeError("string indices must be int, got %s", key.TypeName())
	}
	i, err := idx.ToInt64()
	if err != nil {
		return err
	}
	pos, err := normalizeIndex(i, len(s.Val))
	if err != nil {
		return err
	}
	c, ok := val.(*Char)
	if !ok {
		return NewTypeError("cannot assign %s into a string index", val.TypeName())
	}
	if c.Val > 0x7F {
		return NewTypeError("cannot assign multi-byte char %q into a byte-indexed string", c.Val)
	}
	s.Val[pos] = byte(c.Val)
	return nil
}

func (s *String) MakeSlice(start, stop int64, hasStop bool, step int64) (Object, *RuntimeError) {
	return newSlice(s, start, stop, hasStop, step, len(s.Val))
}

// normalizeIndex resolves a possibly-negative index against length n, reporting
// IndexOutOfBounds when it falls outside [0, n).
func normalizeIndex(i int64, n int) (int, *RuntimeError) {
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, NewIndexOutOfBounds("index %d out of bounds for length %d", i, n)
	}
	return int(i), nil
}

func (s *String) CallMethod(method string, args []Object) (Object, *RuntimeError) {
	switch method {
	case "length":
		if len(args) != 0 {
			return nil, NewTypeError("length expects 0 args")
		}
		return NewInt(int64(len(s.Val))), nil
	case "escape":
		if len(args) != 0 {
			return nil, NewTypeError("escape expects 0 args")
		}
		return NewString(strconv.Quote(string(s.Val))), nil
	default:
		return nil, NewAttributeError("string has no method %s", method)
	}
}
