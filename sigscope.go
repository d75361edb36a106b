// Package sigscope records the signal emissions of an object without the
// caller having to know the object's signal set in advance. An Inspector
// discovers every signal its target's type declares (optionally including
// inherited ones), attaches one observation handle per signal, and
// accumulates an ordered log of (signal, timestamp, argument values)
// records as emissions occur.
//
// It is a testing and inspection utility: the target keeps full ownership
// of its own lifetime and dispatch; the inspector is purely reactive and
// runs on whatever goroutine performs the emission.
package sigscope

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/sigscope/pkg/errors"
	"github.com/agentstation/sigscope/pkg/signals"
)

// Inspector records every emission of every discovered signal of a single
// target object. The log grows monotonically for the inspector's lifetime;
// the inspector is its sole writer.
//
// The target must outlive the inspector. Call Close to detach; the recorded
// log stays readable afterwards.
type Inspector struct {
	id     string
	target signals.Emitter
	config *config
	logger zerolog.Logger

	// set once during discovery, read-only afterwards
	start      int // first method index covered by discovery
	discovered []signals.Method
	handles    map[int]signals.Observation
	conns      []*signals.Connection

	mu      sync.Mutex
	records []Record
	closed  bool
}

// New creates an Inspector for target and performs discovery immediately:
// every method of the target's metatype classified as a signal gets one
// observation handle and one connection. Signals declared by ancestor types
// are included unless disabled with WithInheritedSignals(false).
//
// No emission that happens before New returns is recorded.
func New(target signals.Emitter, opts ...Option) (*Inspector, error) {
	if target == nil {
		return nil, fmt.Errorf("inspecting target: %w", errors.ErrInvalidInput)
	}

	cfg := newConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	insp := &Inspector{
		id:      uuid.NewString(),
		target:  target,
		config:  cfg,
		handles: make(map[int]signals.Observation),
	}
	insp.logger = cfg.logger.With().Str("inspector", insp.id).Logger()

	if err := insp.discover(); err != nil {
		insp.Close()
		return nil, err
	}
	return insp, nil
}

// discover walks the target's method table once and wires one observation
// handle plus one connection per signal. The table never changes afterwards.
func (in *Inspector) discover() error {
	mt := in.target.Metatype()
	if mt == nil {
		return fmt.Errorf("inspecting target: no metatype: %w", errors.ErrInvalidInput)
	}

	if !in.config.inherited {
		in.start = mt.MethodOffset()
	}

	for id := in.start; id < mt.MethodCount(); id++ {
		m := mt.Method(id)
		if m.Kind() != signals.KindSignal {
			continue
		}

		handle, err := in.target.Observe(id)
		if err != nil {
			return fmt.Errorf("observing %s: %w", m, err)
		}
		in.handles[id] = handle

		fn := in.bound(m)
		if in.config.scan {
			fn = in.signalEmitted
		}
		conn, err := in.target.Connect(id, fn)
		if err != nil {
			return fmt.Errorf("connecting %s: %w", m, err)
		}
		in.conns = append(in.conns, conn)
		in.discovered = append(in.discovered, m)
	}

	in.logger.Debug().
		Str("type", mt.Name()).
		Int("signals", len(in.discovered)).
		Bool("inherited", in.config.inherited).
		Msg("signal discovery complete")
	return nil
}

// ID returns the inspector's unique identifier. It tags every diagnostic
// the inspector logs, so output from concurrent inspectors stays
// attributable.
func (in *Inspector) ID() string { return in.id }

// Target returns the object under inspection.
func (in *Inspector) Target() signals.Emitter { return in.target }

// Signals returns the signals discovered at construction, in method order.
func (in *Inspector) Signals() []signals.Method {
	out := make([]signals.Method, len(in.discovered))
	copy(out, in.discovered)
	return out
}

// Len returns the number of recorded emissions.
func (in *Inspector) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.records)
}

// At returns the i-th recorded emission, oldest first. It panics if i is
// out of range, like a slice index.
func (in *Inspector) At(i int) Record {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.records[i]
}

// Records returns a snapshot copy of the emission log in observation order.
func (in *Inspector) Records() Records {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make(Records, len(in.records))
	copy(out, in.records)
	return out
}

// Close detaches the inspector from its target: every connection and
// observation handle is released, and no further emissions are recorded.
// The log remains readable. Close is idempotent.
func (in *Inspector) Close() {
	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		return
	}
	in.closed = true
	in.mu.Unlock()

	for _, conn := range in.conns {
		conn.Close()
	}
	for _, handle := range in.handles {
		handle.Close()
	}
	in.logger.Debug().Msg("inspector closed")
}
