package signals

import (
	"sync"

	"github.com/agentstation/sigscope/pkg/errors"
)

// Dispatch is the invocation context passed to a GenericFunc. It identifies
// the sender; it deliberately carries no argument values and no signal
// index, matching hosts whose sender-side metadata cannot be trusted to
// name the firing overload.
type Dispatch struct {
	// Sender is the emitter whose signal triggered the callback.
	Sender Emitter
}

// GenericFunc is a callback that can be attached to any signal without
// compile-time knowledge of its parameter types.
type GenericFunc func(Dispatch)

// Emitter is the surface an observable object exposes: its method table, a
// generic connection facility, and per-signal observation handles. The
// sigscope inspector is written against this interface only.
type Emitter interface {
	// Metatype returns the method table of the object's type.
	Metatype() *Type

	// Connect attaches fn to the signal at method index id. fn runs
	// synchronously on the emitting goroutine, once per firing.
	Connect(id int, fn GenericFunc) (*Connection, error)

	// Observe allocates an observation handle watching the signal at
	// method index id.
	Observe(id int) (Observation, error)
}

// Connection represents one attached callback.
type Connection struct {
	obj *Object
	id  int
	seq uint64
}

// Close detaches the callback. No invocation occurs after Close returns.
// Safe to call more than once.
func (c *Connection) Close() {
	if c == nil || c.obj == nil {
		return
	}
	c.obj.disconnect(c)
}

// binding is one registered callback; exactly one of generic and raw is set.
// raw receives the argument values and backs observation handles.
type binding struct {
	seq     uint64
	generic GenericFunc
	raw     func(args []any)
}

// Object is the default Emitter implementation. Embed it by pointer in the
// type whose signals should be observable and emit through it:
//
//	type Door struct {
//		*signals.Object
//	}
//
// Emission is synchronous: Emit invokes each callback connected to the
// fired signal, in connection order, before returning.
type Object struct {
	typ *Type

	mu    sync.Mutex
	seq   uint64
	conns map[int][]binding
}

// NewObject creates an Object instance of the given type.
func NewObject(t *Type) *Object {
	if t == nil {
		panic("signals: NewObject requires a type")
	}
	return &Object{typ: t, conns: make(map[int][]binding)}
}

// Metatype returns the method table of the object's type.
func (o *Object) Metatype() *Type { return o.typ }

// Connect attaches fn to the signal at method index id.
func (o *Object) Connect(id int, fn GenericFunc) (*Connection, error) {
	if fn == nil {
		return nil, errors.WrapSignal("connect", o.typ.Name(), errors.ErrInvalidInput)
	}
	return o.attach(id, binding{generic: fn})
}

// connectRaw attaches an argument-capturing callback. It backs observation
// handles and is not part of the public connection surface.
func (o *Object) connectRaw(id int, fn func(args []any)) (*Connection, error) {
	return o.attach(id, binding{raw: fn})
}

func (o *Object) attach(id int, b binding) (*Connection, error) {
	m := o.typ.Method(id)
	if !m.Valid() {
		return nil, errors.NewUnknownIndexError(o.typ.Name(), id)
	}
	if m.Kind() != KindSignal {
		return nil, errors.WrapSignal("connect", m.String(), errors.ErrNotSignal)
	}

	o.mu.Lock()
	o.seq++
	b.seq = o.seq
	o.conns[id] = append(o.conns[id], b)
	o.mu.Unlock()

	return &Connection{obj: o, id: id, seq: b.seq}, nil
}

func (o *Object) disconnect(c *Connection) {
	o.mu.Lock()
	defer o.mu.Unlock()
	list := o.conns[c.id]
	for i, b := range list {
		if b.seq == c.seq {
			o.conns[c.id] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Emit fires the signal named name with the given argument values. When the
// name is overloaded, the overload is resolved by the argument types;
// exactly one overload must accept them.
func (o *Object) Emit(name string, args ...any) error {
	m, err := o.typ.Lookup(name, args)
	if err != nil {
		return err
	}
	return o.EmitMethod(m.Index(), args...)
}

// EmitMethod fires the signal at the exact method index id. The argument
// values must match the signal's parameter list.
func (o *Object) EmitMethod(id int, args ...any) error {
	m := o.typ.Method(id)
	if !m.Valid() {
		return errors.NewUnknownIndexError(o.typ.Name(), id)
	}
	if m.Kind() != KindSignal {
		return errors.WrapSignal("emit", m.String(), errors.ErrNotSignal)
	}
	if !m.Signature().Accepts(args) {
		return errors.NewArgumentError(m.String(), "argument values do not fit the parameter list")
	}

	// Snapshot under lock, invoke without it, so a callback can connect or
	// disconnect safely while the emission is being delivered.
	o.mu.Lock()
	list := make([]binding, len(o.conns[id]))
	copy(list, o.conns[id])
	o.mu.Unlock()

	for _, b := range list {
		if b.raw != nil {
			b.raw(args)
			continue
		}
		b.generic(Dispatch{Sender: o})
	}
	return nil
}
