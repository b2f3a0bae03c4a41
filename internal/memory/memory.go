// Package memory implements the Memory Manager component (spec §4.2): frame-indexed
// storage addressed by (FrameId, LocalName), with closure retention sets that keep a
// torn-down frame's locals alive for as long as a live closure's ancestry map still
// references them. Grounded on original_source/src/memory.rs's MemoryManager.
package memory

import (
	"sync"

	"github.com/technetium-lang/technetium/internal/object"
)

type frame struct {
	locals map[object.LocalName]object.Object
}

// Manager owns every live frame's locals. It is not safe for concurrent use from
// multiple goroutines — the VM is single-threaded (spec §5) — but guards its
// bookkeeping maps with a mutex anyway, since a debugger or REPL attached over stdio
// may inspect frames from a different goroutine than the one running bytecode.
type Manager struct {
	mu sync.Mutex

	frames     map[object.FrameId]*frame
	doNotDrop  map[object.FrameId]map[object.LocalName]bool
	nextFrame  object.FrameId
}

func New() *Manager {
	return &Manager{
		frames:    make(map[object.FrameId]*frame),
		doNotDrop: make(map[object.FrameId]map[object.LocalName]bool),
		nextFrame: 1,
	}
}

// RegisterFrame allocates a fresh FrameId for a new call activation (spec §4.4 call
// lifecycle step 1).
func (m *Manager) RegisterFrame() object.FrameId {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextFrame
	m.nextFrame++
	m.frames[id] = &frame{locals: make(map[object.LocalName]object.Object)}
	return id
}

// Get reads a local slot. A missing slot is a VariableUndefined error rather than an
// internal one: reading an uninitialized local is a program-level bug the compiler's
// local/non-local resolution is supposed to prevent, but the VM still surfaces it as
// a normal runtime error so a malformed program fails cleanly instead of panicking.
func (m *Manager) Get(id object.FrameId, local object.LocalName) (object.Object, *object.RuntimeError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.frames[id]
	if !ok {
		return nil, object.NewInternalError("read from unregistered frame %d", id)
	}
	v, ok := f.locals[local]
	if !ok {
		return nil, object.NewVariableUndefined("local slot %d read before assignment", local)
	}
	return v, nil
}

// Set writes a local slot, creating it if this is the slot's first write (spec §4.3:
// "writing to a name that does not resolve locally creates a fresh local slot").
func (m *Manager) Set(id object.FrameId, local object.LocalName, val object.Object) *object.RuntimeError {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.frames[id]
	if !ok {
		return object.NewInternalError("write to unregistered frame %d", id)
	}
	f.locals[local] = val
	return nil
}

// DoNotDrop marks a (frame, local) pair as retained past ClearFrame: a live closure's
// ancestry map references this frame, so its locals must outlive the call that
// created them. The VM calls this for every slot its compiler determined, statically,
// is captured by some nested closure defined in that frame's context, just before
// clearing the frame.
func (m *Manager) DoNotDrop(id object.FrameId, local object.LocalName) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.doNotDrop[id]
	if !ok {
		set = make(map[object.LocalName]bool)
		m.doNotDrop[id] = set
	}
	set[local] = true
}

// ClearFrame tears down a completed call's frame. Locals named in its do-not-drop set
// survive (some live closure still needs them); everything else is dropped. If any
// local is retained, the frame itself stays registered, holding only the retained
// locals, so later Get/Set calls through a closure's ancestry map still resolve;
// otherwise the frame is removed.
func (m *Manager) ClearFrame(id object.FrameId) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.frames[id]
	if !ok {
		return
	}
	retain := m.doNotDrop[id]
	if len(retain) == 0 {
		delete(m.frames, id)
		delete(m.doNotDrop, id)
		return
	}
	for local := range f.locals {
		if !retain[local] {
			delete(f.locals, local)
		}
	}
}
