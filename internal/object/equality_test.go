package object

import "testing"

// lockedString returns a locked String: only a locked String is hashable.
func lockedString(s string) *String {
	v := NewString(s)
	v.Lock()
	return v
}

// TestEqualImpliesHashEqual is spec §8 universal law 4: for all hashable a,b,
// a==b must imply hash(a)==hash(b).
func TestEqualImpliesHashEqual(t *testing.T) {
	pairs := [][2]Object{
		{NewInt(42), NewInt(42)},
		{NewInt(0), NewInt(0)},
		{lockedString("hello"), lockedString("hello")},
		{NewBool(true), NewBool(true)},
		{NewChar('x'), NewChar('x')},
		{NewFloat(1.5), NewFloat(1.5)},
	}
	for _, p := range pairs {
		eq, err := Equal(p[0], p[1])
		if err != nil {
			t.Fatalf("Equal: %s", err.Error())
		}
		if !eq {
			t.Fatalf("expected %v == %v", p[0], p[1])
		}
		h0, err := p[0].Hash()
		if err != nil {
			t.Fatalf("Hash: %s", err.Error())
		}
		h1, err := p[1].Hash()
		if err != nil {
			t.Fatalf("Hash: %s", err.Error())
		}
		if h0 != h1 {
			t.Errorf("hash(%v)=%d != hash(%v)=%d despite equality", p[0], h0, p[1], h1)
		}
	}
}

func TestEqualDistinguishesTypes(t *testing.T) {
	eq, err := Equal(NewInt(1), NewString("1"))
	if err != nil {
		t.Fatalf("Equal: %s", err.Error())
	}
	if eq {
		t.Error("an Int and a String with the 'same' text must not be equal")
	}
}

func TestEqualStructural(t *testing.T) {
	a := NewList([]Object{NewInt(1), NewInt(2)})
	b := NewList([]Object{NewInt(1), NewInt(2)})
	eq, err := Equal(a, b)
	if err != nil {
		t.Fatalf("Equal: %s", err.Error())
	}
	if !eq {
		t.Error("structurally identical lists must compare equal")
	}

	c := NewList([]Object{NewInt(1), NewInt(3)})
	eq, err = Equal(a, c)
	if err != nil {
		t.Fatalf("Equal: %s", err.Error())
	}
	if eq {
		t.Error("lists differing at an element must not compare equal")
	}
}
