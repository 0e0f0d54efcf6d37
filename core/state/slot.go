// Package state provides Slot, the controlled/uncontrolled state cell shared by
// every stage of the table.
//
// A Slot without a handler is uncontrolled: Dispatch stores the next value. A
// Slot with a handler is controlled: Dispatch leaves the value alone and hands
// the transition to the handler, and the owner of the state pushes the accepted
// value back with Set.
//
// Dispatch does not call the handler itself. It returns an Effect so callers
// holding a lock can release it before the handler runs:
//
//	mu.Lock()
//	eff := page.Dispatch(3)
//	mu.Unlock()
//	eff.Run()
//
// A Slot is not safe for concurrent use; guard it with the owner's lock.
package state

// Effect is a deferred notification produced by a transition.
type Effect func()

// Run invokes the effect. A nil Effect is a no-op.
func (e Effect) Run() {
	if e != nil {
		e()
	}
}

// Effects collects deferred notifications in order.
type Effects []Effect

// Add appends e when it is non-nil.
func (es *Effects) Add(e Effect) {
	if e != nil {
		*es = append(*es, e)
	}
}

// Run invokes every effect in order.
func (es Effects) Run() {
	for _, e := range es {
		e.Run()
	}
}

// Slot holds one piece of stage state.
type Slot[S any] struct {
	value   S
	handler func(S)
	mirror  bool
	version uint64
}

// Option configures a Slot.
type Option func(*options)

type options struct {
	mirror bool
}

// Mirrored makes a controlled slot also store dispatched values. Stages whose
// local value drives presentation while the host owns the effect use it.
func Mirrored() Option {
	return func(o *options) { o.mirror = true }
}

// NewSlot creates a slot. A nil handler makes it uncontrolled.
func NewSlot[S any](initial S, handler func(S), opts ...Option) *Slot[S] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Slot[S]{value: initial, handler: handler, mirror: o.mirror}
}

// Get returns the current value.
func (s *Slot[S]) Get() S {
	return s.value
}

// Controlled reports whether an external handler owns the state.
func (s *Slot[S]) Controlled() bool {
	return s.handler != nil
}

// Version increases on every stored change. Owners compare it to decide
// whether derived data is stale.
func (s *Slot[S]) Version() uint64 {
	return s.version
}

// Dispatch requests a transition to next. Uncontrolled or mirrored slots store
// it. The returned Effect notifies the handler and is nil for uncontrolled slots.
func (s *Slot[S]) Dispatch(next S) Effect {
	if s.handler == nil || s.mirror {
		s.store(next)
	}
	if s.handler == nil {
		return nil
	}
	h := s.handler
	return func() { h(next) }
}

// Set stores v without notifying the handler. Hosts of controlled slots use it
// to push the value they accepted.
func (s *Slot[S]) Set(v S) {
	s.store(v)
}

// SetHandler replaces the handler, switching the slot between controlled and
// uncontrolled.
func (s *Slot[S]) SetHandler(h func(S)) {
	s.handler = h
}

func (s *Slot[S]) store(v S) {
	s.value = v
	s.version++
}
