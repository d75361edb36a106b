package signals

import (
	"reflect"
	"strings"

	"github.com/agentstation/sigscope/pkg/errors"
)

// Kind classifies an entry in a type's method table.
type Kind int

const (
	// KindMethod is a plain callable with no observable emission.
	KindMethod Kind = iota

	// KindSignal is an observable emission with a fixed parameter list.
	KindSignal
)

// String returns the kind as a lowercase word.
func (k Kind) String() string {
	if k == KindSignal {
		return "signal"
	}
	return "method"
}

// Signature is a method name together with its formal parameter types.
// Overloads share a name; the full signature distinguishes them.
type Signature struct {
	Name   string
	Params []reflect.Type
}

// String renders the signature in declaration form, e.g. "closed(string)".
func (s Signature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	return s.Name + "(" + strings.Join(params, ", ") + ")"
}

// Accepts reports whether the given argument values are assignable to the
// signature's parameter list, position by position.
func (s Signature) Accepts(args []any) bool {
	if len(args) != len(s.Params) {
		return false
	}
	for i, arg := range args {
		if arg == nil {
			// nil is only a valid value for nilable parameter types
			switch s.Params[i].Kind() {
			case reflect.Interface, reflect.Pointer, reflect.Map,
				reflect.Slice, reflect.Chan, reflect.Func:
				continue
			default:
				return false
			}
		}
		if !reflect.TypeOf(arg).AssignableTo(s.Params[i]) {
			return false
		}
	}
	return true
}

// Method is one entry in a Type's method table. The zero Method is invalid.
type Method struct {
	owner *Type
	index int
	kind  Kind
	sig   Signature
}

// Index returns the method's stable position in the flattened method table.
// Indices count ancestor declarations first, so a method keeps its index in
// every type derived from its declaring type.
func (m Method) Index() int { return m.index }

// Kind returns the method's classification.
func (m Method) Kind() Kind { return m.kind }

// Name returns the declared name, without parameters.
func (m Method) Name() string { return m.sig.Name }

// Signature returns the full signature.
func (m Method) Signature() Signature { return m.sig }

// DeclaredBy returns the type whose declaration introduced the method.
func (m Method) DeclaredBy() *Type { return m.owner }

// Valid reports whether the method refers to a real table entry.
func (m Method) Valid() bool { return m.owner != nil }

// String renders the method as "Type.name(params)".
func (m Method) String() string {
	if !m.Valid() {
		return "<invalid method>"
	}
	return m.owner.name + "." + m.sig.String()
}

// Type is the introspectable method table of an emitter type. A Type lists
// its own declarations after every declaration of its parent chain, giving
// each method a stable flattened index.
//
// Declare a type completely before deriving from it or instantiating it;
// Type is not safe for concurrent mutation.
type Type struct {
	name    string
	parent  *Type
	methods []Method // own declarations only
	frozen  bool
}

// NewType creates a type named name deriving from parent (nil for a root
// type). The parent is frozen: no further methods may be declared on it.
func NewType(name string, parent *Type) *Type {
	if parent != nil {
		parent.frozen = true
	}
	return &Type{name: name, parent: parent}
}

// Name returns the type's name.
func (t *Type) Name() string { return t.name }

// Parent returns the type this type derives from, or nil.
func (t *Type) Parent() *Type { return t.parent }

// MethodOffset returns the flattened index of the first method declared by
// t itself. Methods below the offset are inherited.
func (t *Type) MethodOffset() int {
	if t.parent == nil {
		return 0
	}
	return t.parent.MethodCount()
}

// MethodCount returns the total number of methods, inherited ones included.
func (t *Type) MethodCount() int {
	return t.MethodOffset() + len(t.methods)
}

// Method returns the entry at flattened index i, or an invalid Method if i
// is out of range.
func (t *Type) Method(i int) Method {
	if i < 0 || i >= t.MethodCount() {
		return Method{}
	}
	if off := t.MethodOffset(); i < off {
		return t.parent.Method(i)
	}
	return t.methods[i-t.MethodOffset()]
}

// AddSignal declares a signal with the given parameter types and returns
// its table entry.
func (t *Type) AddSignal(name string, params ...reflect.Type) Method {
	return t.add(KindSignal, name, params)
}

// AddMethod declares a plain (non-signal) method and returns its table entry.
func (t *Type) AddMethod(name string, params ...reflect.Type) Method {
	return t.add(KindMethod, name, params)
}

func (t *Type) add(kind Kind, name string, params []reflect.Type) Method {
	if t.frozen {
		panic("signals: type " + t.name + " is frozen, declare methods before deriving")
	}
	m := Method{
		owner: t,
		index: t.MethodCount(),
		kind:  kind,
		sig:   Signature{Name: name, Params: params},
	}
	t.methods = append(t.methods, m)
	return m
}

// Lookup resolves a signal by name and the argument values it is being
// fired with. Exactly one overload must accept the arguments; otherwise an
// error wrapping ErrUnknownMethod, ErrTypeMismatch or ErrAmbiguousSignal is
// returned.
func (t *Type) Lookup(name string, args []any) (Method, error) {
	var matches []Method
	named := false
	for i := 0; i < t.MethodCount(); i++ {
		m := t.Method(i)
		if m.Kind() != KindSignal || m.Name() != name {
			continue
		}
		named = true
		if m.Signature().Accepts(args) {
			matches = append(matches, m)
		}
	}
	switch {
	case len(matches) == 1:
		return matches[0], nil
	case len(matches) > 1:
		sigs := make([]string, len(matches))
		for i, m := range matches {
			sigs[i] = m.Signature().String()
		}
		return Method{}, &errors.AmbiguousSignalError{Type: t.name, Name: name, Matches: sigs}
	case named:
		return Method{}, errors.NewArgumentError(name, "no overload accepts the given arguments")
	default:
		return Method{}, errors.NewUnknownMethodError(t.name, name)
	}
}
