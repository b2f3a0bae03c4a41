package vm

import "github.com/technetium-lang/technetium/internal/object"

// scope tracks one function context's local-name bindings during compilation, and
// links to the lexically enclosing scope so non-local names can be resolved by
// walking ancestors (spec §4.3: "ancestor-scoped name resolution").
type scope struct {
	ctx       object.ContextId
	parent    *scope
	chunk     *Chunk
	locals    map[string]object.LocalName
	nextLocal object.LocalName
}

func newScope(ctx object.ContextId, chunk *Chunk, parent *scope) *scope {
	return &scope{ctx: ctx, parent: parent, chunk: chunk, locals: make(map[string]object.LocalName)}
}

// declareLocal allocates a fresh slot for name in this scope, or returns the
// existing one if already declared (re-assignment reuses the slot).
func (s *scope) declareLocal(name string) object.LocalName {
	if slot, ok := s.locals[name]; ok {
		return slot
	}
	slot := s.nextLocal
	s.locals[name] = slot
	s.nextLocal++
	return slot
}

func (s *scope) resolveLocal(name string) (object.LocalName, bool) {
	slot, ok := s.locals[name]
	return slot, ok
}

// resolveNonLocal walks enclosing scopes looking for name, returning the ancestor's
// ContextId and slot. It does not search s itself — callers check resolveLocal first.
// A hit marks the slot retained in its owning context's chunk (spec §4.3), since a
// closure capturing it means the frame that creates it must outlive the call.
func (s *scope) resolveNonLocal(name string) (object.NonLocalName, bool) {
	for anc := s.parent; anc != nil; anc = anc.parent {
		if slot, ok := anc.locals[name]; ok {
			anc.chunk.MarkRetained(slot)
			return object.NonLocalName{Context: anc.ctx, Local: slot}, true
		}
	}
	return object.NonLocalName{}, false
}
