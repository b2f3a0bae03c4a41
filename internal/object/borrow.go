package object

// Borrow implements the interior-mutability discipline every mutable heap object
// embeds: many readers XOR one writer, plus a one-way lock transition (spec §5, §9).
//
// Technetium's VM is single-threaded (spec §5), so Borrow is not a concurrency
// primitive — nothing blocks. It is a same-goroutine invariant check: a live
// iterator (or any other outstanding read) on a container raises a BorrowConflict
// on the next write to that same container, instead of silently corrupting the
// in-progress iteration.
type Borrow struct {
	readers int
	locked  bool
}

// BeginRead registers an outstanding read borrow (e.g. a live iterator).
func (b *Borrow) BeginRead() { b.readers++ }

// EndRead releases a previously registered read borrow.
func (b *Borrow) EndRead() {
	if b.readers > 0 {
		b.readers--
	}
}

// CheckWrite returns the error a mutation must fail with, or nil if the mutation
// may proceed.
func (b *Borrow) CheckWrite() *RuntimeError {
	if b.locked {
		return NewMutateImmutable("cannot mutate a locked value")
	}
	if b.readers > 0 {
		return NewBorrowConflict("value is being iterated; cannot mutate concurrently")
	}
	return nil
}

// Lock applies the one-way immutability transition (spec: implicit on Set/Dictionary
// insertion, explicit via the `lock` builtin). Once locked, it never unlocks.
func (b *Borrow) Lock() { b.locked = true }

// Locked reports whether the one-way lock transition has happened.
func (b *Borrow) Locked() bool { return b.locked }
