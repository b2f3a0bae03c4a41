package object

import "testing"

func TestListIndexSetAndGet(t *testing.T) {
	l := NewList([]Object{NewInt(1), NewInt(2), NewInt(3)})
	if err := l.IndexSet(NewInt(1), NewInt(99)); err != nil {
		t.Fatalf("IndexSet: %s", err.Error())
	}
	v, err := l.IndexGet(NewInt(1))
	if err != nil {
		t.Fatalf("IndexGet: %s", err.Error())
	}
	i, ok := v.(*Int)
	if !ok || i.Val.Int64() != 99 {
		t.Errorf("got %v, want 99", v)
	}
}

func TestListIteratorBlocksMutation(t *testing.T) {
	l := NewList([]Object{NewInt(1), NewInt(2)})
	it, err := l.MakeIterator()
	if err != nil {
		t.Fatalf("MakeIterator: %s", err.Error())
	}
	// Draining Next() to exhaustion releases the read borrow it holds; done at
	// the end of the test so the conflict check below sees a live borrow.
	defer func() {
		for {
			_, ok, _ := it.Next()
			if !ok {
				break
			}
		}
	}()

	if err := l.CheckWrite(); err == nil {
		t.Fatal("expected a BorrowConflict while an iterator is live")
	} else if err.Kind != BorrowConflict {
		t.Errorf("got error kind %s, want BorrowConflict", err.Kind)
	}
}

// TestSetAddLocksInsertedValue is spec scenario S6's underlying mechanism: adding
// a value to a Set implicitly and permanently locks it.
func TestSetAddLocksInsertedValue(t *testing.T) {
	inner := NewSet()
	if err := inner.Add(NewInt(1)); err != nil {
		t.Fatalf("Add: %s", err.Error())
	}

	outer := NewSet()
	if err := outer.Add(inner); err != nil {
		t.Fatalf("Add: %s", err.Error())
	}

	if err := inner.Add(NewInt(2)); err == nil {
		t.Fatal("expected MutateImmutable after inner set was inserted into outer")
	} else if err.Kind != MutateImmutable {
		t.Errorf("got error kind %s, want MutateImmutable", err.Kind)
	}
}

func TestLockIsOneWay(t *testing.T) {
	s := NewSet()
	s.Lock()
	if err := s.Add(NewInt(1)); err == nil {
		t.Fatal("expected MutateImmutable on a locked set")
	}
	// Locking an already-locked value is a no-op, not an unlock.
	s.Lock()
	if err := s.Add(NewInt(2)); err == nil {
		t.Fatal("expected the set to remain locked")
	}
}

func TestDictionarySetAndGet(t *testing.T) {
	d := NewDictionary()
	if err := d.Set(NewString("k"), NewInt(7)); err != nil {
		t.Fatalf("Set: %s", err.Error())
	}
	v, err := d.Get(NewString("k"))
	if err != nil {
		t.Fatalf("Get: %s", err.Error())
	}
	i, ok := v.(*Int)
	if !ok || i.Val.Int64() != 7 {
		t.Errorf("got %v, want 7", v)
	}
}

func TestDictionaryKeyIsLockedOnInsert(t *testing.T) {
	d := NewDictionary()
	key := NewSet()
	if err := d.Set(key, NewInt(1)); err != nil {
		t.Fatalf("Set: %s", err.Error())
	}
	if err := key.Add(NewInt(5)); err == nil {
		t.Fatal("expected the key to be locked after use as a dictionary key")
	}
}
