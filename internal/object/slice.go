package object

import "strings"

// Slice is a live, non-owning view into a Sliceable parent (spec §3: "slices are
// views, not copies — mutating the parent is visible through the slice"). Indexing
// always re-reads the parent at call time; per the iterator/mutation design decision
// in DESIGN.md, a parent mutated out from under a live slice surfaces as
// IndexOutOfBounds, not BorrowConflict — unlike List/Set/Dictionary iteration, which
// does take a read borrow on the parent.
type Slice struct {
	Base
	Parent  Object
	Start   int64
	Stop    int64
	HasStop bool
	Step    int64
}

// newSlice resolves slice bounds against a parent of known length: a negative start
// counts from the end, and so does a negative stop when step is positive; an absent
// stop runs past the last element in the step's direction. Bounds are clamped to
// [0, n] for a positive step and to [-1, n-1] for a negative one.
func newSlice(parent Object, start, stop int64, hasStop bool, step int64, parentLen int) (*Slice, *RuntimeError) {
	if step == 0 {
		return nil, NewTypeError("slice step cannot be zero")
	}
	n := int64(parentLen)
	lo, hi := int64(0), n
	if step < 0 {
		lo, hi = -1, n-1
	}
	if start < 0 {
		start += n
	}
	if start < lo {
		start = lo
	}
	if start > hi {
		start = hi
	}
	if hasStop {
		if stop < 0 && step > 0 {
			stop += n
		}
		if stop < lo {
			stop = lo
		}
		if stop > hi {
			stop = hi
		}
	} else {
		if step > 0 {
			stop = n
		} else {
			stop = -1
		}
	}
	return &Slice{Base: Base{Name: "slice"}, Parent: parent, Start: start, Stop: stop, HasStop: true, Step: step}, nil
}

// length returns the number of elements the slice currently yields, recomputed
// against the parent's live length each time it's asked.
func (s *Slice) length() int {
	if s.Step > 0 {
		if s.Stop <= s.Start {
			return 0
		}
		return int((s.Stop - s.Start + s.Step - 1) / s.Step)
	}
	if s.Start <= s.Stop {
		return 0
	}
	return int((s.Start - s.Stop - s.Step - 1) / (-s.Step))
}

func (s *Slice) parentIndex(i int64) int64 {
	return s.Start + i*s.Step
}

func (s *Slice) Clone() (Object, *RuntimeError) {
	return &Slice{Base: s.Base, Parent: s.Parent, Start: s.Start, Stop: s.Stop, HasStop: s.HasStop, Step: s.Step}, nil
}

func (s *Slice) ToString() (string, *RuntimeError) {
	n := s.length()
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v, err := s.Parent.IndexGet(NewInt(s.parentIndex(int64(i))))
		if err != nil {
			return "", err
		}
		str, err := v.ToString()
		if err != nil {
			return "", err
		}
		parts = append(parts, str)
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

func (s *Slice) Truthy() bool { return s.length() != 0 }

func (s *Slice) Length() int { return s.length() }

func (s *Slice) IndexGet(key Object) (Object, *RuntimeError) {
	idx, ok := key.(*Int)
	if !ok {
		return nil, NewTypeError("slice indices must be int, got %s", key.TypeName())
	}
	i, err := idx.ToInt64()
	if err != nil {
		return nil, err
	}
	pos, err := normalizeIndex(i, s.length())
	if err != nil {
		return nil, err
	}
	return s.Parent.IndexGet(NewInt(s.parentIndex(int64(pos))))
}

func (s *Slice) IndexSet(key Object, val Object) *RuntimeError {
	idx, ok := key.(*Int)
	if !ok {
		return NewTypeError("slice indices must be int, got %s", key.TypeName())
	}
	i, err := idx.ToInt64()
	if err != nil {
		return err
	}
	pos, err := normalizeIndex(i, s.length())
	if err != nil {
		return err
	}
	return s.Parent.IndexSet(NewInt(s.parentIndex(int64(pos))), val)
}

func (s *Slice) MakeSlice(start, stop int64, hasStop bool, step int64) (Object, *RuntimeError) {
	return newSlice(s, start, stop, hasStop, step, s.length())
}

func (s *Slice) MakeIterator() (Iterator, *RuntimeError) {
	return &sliceViewIterator{slice: s}, nil
}

func (s *Slice) CallMethod(method string, args []Object) (Object, *RuntimeError) {
	if method == "length" {
		return NewInt(int64(s.length())), nil
	}
	return nil, NewAttributeError("slice has no method %s", method)
}

// sliceViewIterator walks a Slice by re-indexing the live parent each step, so it
// observes parent mutations rather than snapshotting (see Slice's doc comment).
type sliceViewIterator struct {
	Base
	slice *Slice
	pos   int
}

func (it *sliceViewIterator) Next() (Object, bool, *RuntimeError) {
	if it.pos >= it.slice.length() {
		return nil, false, nil
	}
	v, err := it.slice.Parent.IndexGet(NewInt(it.slice.parentIndex(int64(it.pos))))
	if err != nil {
		return nil, false, err
	}
	it.pos++
	return v, true, nil
}

// sliceIterator is the snapshot-at-make_iter iterator used by List, Tuple, Set, and
// Dictionary: it copies the contents once and walks the copy. List, Set, and
// Dictionary also take a read borrow when constructing it, so mutating the source
// while the iteration is in flight raises BorrowConflict (the design decision
// recorded in DESIGN.md). onClose, when set, releases that read borrow once the
// iterator is exhausted.
type sliceIterator struct {
	Base
	contents []Object
	pos      int
	onClose  func()
	closed   bool
}

func (it *sliceIterator) Next() (Object, bool, *RuntimeError) {
	if it.pos >= len(it.contents) {
		it.release()
		return nil, false, nil
	}
	v := it.contents[it.pos]
	it.pos++
	return v, true, nil
}

func (it *sliceIterator) release() {
	if !it.closed && it.onClose != nil {
		it.onClose()
		it.closed = true
	}
}
