package object

import "strings"

// List is a growable, mutable, ordered sequence (spec §3). Writes (index assignment,
// append, pop) check the borrow state and iteration takes a read borrow (see Borrow),
// so a live iterator raises BorrowConflict on concurrent mutation, per
// original_source/src/core.rs's List. Index reads take no borrow.
type List struct {
	Base
	Borrow
	Contents []Object
}

func NewList(items []Object) *List {
	return &List{Base: Base{Name: "list"}, Contents: items}
}

func (l *List) ToString() (string, *RuntimeError) {
	parts := make([]string, len(l.Contents))
	for i, v := range l.Contents {
		s, err := v.ToString()
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

func (l *List) Truthy() bool { return len(l.Contents) != 0 }

func (l *List) Clone() (Object, *RuntimeError) {
	out := make([]Object, len(l.Contents))
	for i, v := range l.Contents {
		cv, err := v.Clone()
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}
	return NewList(out), nil
}

func (l *List) Length() int { return len(l.Contents) }

func (l *List) IndexGet(key Object) (Object, *RuntimeError) {
	idx, ok := key.(*Int)
	if !ok {
		return nil, NewTypeError("list indices must be int, got %s", key.TypeName())
	}
	i, err := idx.ToInt64()
	if err != nil {
		return nil, err
	}
	pos, err := normalizeIndex(i, len(l.Contents))
	if err != nil {
		return nil, err
	}
	return l.Contents[pos], nil
}

func (l *List) IndexSet(key Object, val Object) *RuntimeError {
	if err := l.CheckWrite(); err != nil {
		return err
	}
	idx, ok := key.(*Int)
	if !ok {
		return NewTypeError("list indices must be int, got %s", key.TypeName())
	}
	i, err := idx.ToInt64()
	if err != nil {
		return err
	}
	pos, err := normalizeIndex(i, len(l.Contents))
	if err != nil {
		return err
	}
	l.Contents[pos] = val
	return nil
}

func (l *List) MakeSlice(start, stop int64, hasStop bool, step int64) (Object, *RuntimeError) {
	return newSlice(l, start, stop, hasStop, step, len(l.Contents))
}

func (l *List) MakeIterator() (Iterator, *RuntimeError) {
	snapshot := make([]Object, len(l.Contents))
	copy(snapshot, l.Contents)
	l.BeginRead()
	return &sliceIterator{contents: snapshot, onClose: l.EndRead}, nil
}

func (l *List) CallMethod(method string, args []Object) (Object, *RuntimeError) {
	switch method {
	case "length":
		if len(args) != 0 {
			return nil, NewTypeError("length expects 0 args")
		}
		return NewInt(int64(len(l.Contents))), nil
	case "append":
		if err := l.CheckWrite(); err != nil {
			return nil, err
		}
		l.Contents = append(l.Contents, args...)
		return TheUnit, nil
	case "pop":
		if err := l.CheckWrite(); err != nil {
			return nil, err
		}
		if len(l.Contents) == 0 {
			return nil, NewIndexOutOfBounds("pop from an empty list")
		}
		last := l.Contents[len(l.Contents)-1]
		l.Contents = l.Contents[:len(l.Contents)-1]
		return last, nil
	default:
		return nil, NewAttributeError("list has no method %s", method)
	}
}

// Tuple is a fixed-size, immutable-by-construction sequence.
type Tuple struct {
	Base
	Contents []Object
}

func NewTuple(items []Object) *Tuple {
	return &Tuple{Base: Base{Name: "tuple"}, Contents: items}
}

func (t *Tuple) ToString() (string, *RuntimeError) {
	parts := make([]string, len(t.Contents))
	for i, v := range t.Contents {
		s, err := v.ToString()
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

func (t *Tuple) Truthy() bool { return len(t.Contents) != 0 }

func (t *Tuple) Clone() (Object, *RuntimeError) { return t, nil }

func (t *Tuple) Length() int { return len(t.Contents) }

func (t *Tuple) IndexGet(key Object) (Object, *RuntimeError) {
	idx, ok := key.(*Int)
	if !ok {
		return nil, NewTypeError("tuple indices must be int, got %s", key.TypeName())
	}
	i, err := idx.ToInt64()
	if err != nil {
		return nil, err
	}
	pos, err := normalizeIndex(i, len(t.Contents))
	if err != nil {
		return nil, err
	}
	return t.Contents[pos], nil
}

func (t *Tuple) MakeSlice(start, stop int64, hasStop bool, step int64) (Object, *RuntimeError) {
	return newSlice(t, start, stop, hasStop, step, len(t.Contents))
}

func (t *Tuple) MakeIterator() (Iterator, *RuntimeError) {
	return &sliceIterator{contents: t.Contents}, nil
}

func (t *Tuple) CallMethod(method string, args []Object) (Object, *RuntimeError) {
	if method == "length" {
		if len(args) != 0 {
			return nil, NewTypeError("length expects 0 args")
		}
		return NewInt(int64(len(t.Contents))), nil
	}
	return nil, NewAttributeError("tuple has no method %s", method)
}

// setEntry pairs a member with its hash for Set's open-addressed-by-hash-bucket map.
type setEntry struct {
	val  Object
	hash uint64
}

// Set is an unordered collection of distinct, hashable values. Spec: inserting a
// value into a Set implicitly locks it (it must remain hashable for as long as it's
// a member).
type Set struct {
	Base
	Borrow
	buckets map[uint64][]setEntry
}

func NewSet() *Set {
	return &Set{Base: Base{Name: "set"}, buckets: make(map[uint64][]setEntry)}
}

func (s *Set) lockAndHash(v Object) (uint64, *RuntimeError) {
	if lv, ok := v.(interface{ Lock() }); ok {
		lv.Lock()
	}
	return v.Hash()
}

func valEqual(a, b Object) (bool, *RuntimeError) {
	return Equal(a, b)
}

func (s *Set) Add(v Object) *RuntimeError {
	if err := s.CheckWrite(); err != nil {
		return err
	}
	h, err := s.lockAndHash(v)
	if err != nil {
		return err
	}
	for _, e := range s.buckets[h] {
		eq, err := valEqual(e.val, v)
		if err != nil {
			return err
		}
		if eq {
			return nil
		}
	}
	s.buckets[h] = append(s.buckets[h], setEntry{val: v, hash: h})
	return nil
}

func (s *Set) Contains(v Object) (bool, *RuntimeError) {
	h, err := v.Hash()
	if err != nil {
		return false, err
	}
	for _, e := range s.buckets[h] {
		eq, err := valEqual(e.val, v)
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}
	return false, nil
}

func (s *Set) Remove(v Object) *RuntimeError {
	if err := s.CheckWrite(); err != nil {
		return err
	}
	h, err := v.Hash()
	if err != nil {
		return err
	}
	bucket := s.buckets[h]
	for i, e := range bucket {
		eq, err := valEqual(e.val, v)
		if err != nil {
			return err
		}
		if eq {
			s.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			return nil
		}
	}
	return NewKeyError("value not present in set")
}

func (s *Set) Len() int {
	n := 0
	for _, b := range s.buckets {
		n += len(b)
	}
	return n
}

func (s *Set) ToString() (string, *RuntimeError) {
	var parts []string
	for _, b := range s.buckets {
		for _, e := range b {
			str, err := e.val.ToString()
			if err != nil {
				return "", err
			}
			parts = append(parts, str)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func (s *Set) Truthy() bool { return s.Len() != 0 }

// Hash sums the members' hashes, so Equal sets hash the same whatever their bucket
// order. Only a locked Set is hashable.
func (s *Set) Hash() (uint64, *RuntimeError) {
	if !s.Locked() {
		return 0, NewTypeError("set must be locked before use as a hashable")
	}
	var h uint64
	for _, b := range s.buckets {
		for _, e := range b {
			h += e.hash
		}
	}
	return h, nil
}

func (s *Set) Clone() (Object, *RuntimeError) {
	out := NewSet()
	for _, b := range s.buckets {
		for _, e := range b {
			if err := out.Add(e.val); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (s *Set) MakeIterator() (Iterator, *RuntimeError) {
	var items []Object
	for _, b := range s.buckets {
		for _, e := range b {
			items = append(items, e.val)
		}
	}
	s.BeginRead()
	return &sliceIterator{contents: items, onClose: s.EndRead}, nil
}

func (s *Set) CallMethod(method string, args []Object) (Object, *RuntimeError) {
	switch method {
	case "length":
		return NewInt(int64(s.Len())), nil
	case "add":
		if len(args) != 1 {
			return nil, NewTypeError("add expects 1 arg")
		}
		return TheUnit, s.Add(args[0])
	case "contains":
		if len(args) != 1 {
			return nil, NewTypeError("contains expects 1 arg")
		}
		ok, err := s.Contains(args[0])
		if err != nil {
			return nil, err
		}
		return NewBool(ok), nil
	case "remove":
		if len(args) != 1 {
			return nil, NewTypeError("remove expects 1 arg")
		}
		return TheUnit, s.Remove(args[0])
	default:
		return nil, NewAttributeError("set has no method %s", method)
	}
}

// dictEntry pairs a stored key/value with the key's hash.
type dictEntry struct {
	key, val Object
	hash     uint64
}

// Dictionary maps hashable keys to arbitrary values. Like Set, inserting a key
// implicitly locks it; so does looking a key up.
type Dictionary struct {
	Base
	Borrow
	buckets map[uint64][]dictEntry
}

func NewDictionary() *Dictionary {
	return &Dictionary{Base: Base{Name: "dict"}, buckets: make(map[uint64][]dictEntry)}
}

func (d *Dictionary) Set(key, val Object) *RuntimeError {
	if err := d.CheckWrite(); err != nil {
		return err
	}
	if lv, ok := key.(interface{ Lock() }); ok {
		lv.Lock()
	}
	h, err := key.Hash()
	if err != nil {
		return err
	}
	bucket := d.buckets[h]
	for i, e := range bucket {
		eq, err := valEqual(e.key, key)
		if err != nil {
			return err
		}
		if eq {
			bucket[i].val = val
			return nil
		}
	}
	d.buckets[h] = append(bucket, dictEntry{key: key, val: val, hash: h})
	return nil
}

func (d *Dictionary) Get(key Object) (Object, *RuntimeError) {
	if lv, ok := key.(interface{ Lock() }); ok {
		lv.Lock()
	}
	h, err := key.Hash()
	if err != nil {
		return nil, err
	}
	for _, e := range d.buckets[h] {
		eq, err := valEqual(e.key, key)
		if err != nil {
			return nil, err
		}
		if eq {
			return e.val, nil
		}
	}
	return nil, NewKeyError("key not found in dict")
}

func (d *Dictionary) Len() int {
	n := 0
	for _, b := range d.buckets {
		n += len(b)
	}
	return n
}

func (d *Dictionary) ToString() (string, *RuntimeError) {
	var parts []string
	for _, b := range d.buckets {
		for _, e := range b {
			ks, err := e.key.ToString()
			if err != nil {
				return "", err
			}
			vs, err := e.val.ToString()
			if err != nil {
				return "", err
			}
			parts = append(parts, ks+": "+vs)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func (d *Dictionary) Truthy() bool { return d.Len() != 0 }

func (d *Dictionary) Clone() (Object, *RuntimeError) {
	out := NewDictionary()
	for _, b := range d.buckets {
		for _, e := range b {
			if err := out.Set(e.key, e.val); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (d *Dictionary) IndexGet(key Object) (Object, *RuntimeError) { return d.Get(key) }

func (d *Dictionary) IndexSet(key Object, val Object) *RuntimeError { return d.Set(key, val) }

func (d *Dictionary) MakeIterator() (Iterator, *RuntimeError) {
	var items []Object
	for _, b := range d.buckets {
		for _, e := range b {
			items = append(items, NewTuple([]Object{e.key, e.val}))
		}
	}
	d.BeginRead()
	return &sliceIterator{contents: items, onClose: d.EndRead}, nil
}

func (d *Dictionary) CallMethod(method string, args []Object) (Object, *RuntimeError) {
	switch method {
	case "length":
		return NewInt(int64(d.Len())), nil
	case "keys":
		var keys []Object
		for _, b := range d.buckets {
			for _, e := range b {
				keys = append(keys, e.key)
			}
		}
		return NewList(keys), nil
	case "contains":
		if len(args) != 1 {
			return nil, NewTypeError("contains expects 1 arg")
		}
		_, err := d.Get(args[0])
		if err != nil {
			if err.Kind == KeyError {
				return NewBool(false), nil
			}
			return nil, err
		}
		return NewBool(true), nil
	default:
		return nil, NewAttributeError("dict has no method %s", method)
	}
}
