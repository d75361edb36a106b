package sigscope

import "github.com/agentstation/sigscope/pkg/signals"

// bound returns the per-signal handler used by default. The closure carries
// the signal identity fixed at connection time, so an emission can never be
// attributed to another signal, overloaded or not.
func (in *Inspector) bound(m signals.Method) signals.GenericFunc {
	return func(signals.Dispatch) {
		in.capture(m, in.handles[m.Index()])
	}
}

// signalEmitted is the shared handler used when scan dispatch is enabled.
// The dispatch context cannot be trusted to name the firing signal once
// overloads are involved, so the handler walks the sender's signals in
// method order and takes the first one whose observation handle has a
// pending firing. Correct only under synchronous one-invocation-per-firing
// delivery; see WithScanDispatch.
func (in *Inspector) signalEmitted(d signals.Dispatch) {
	if d.Sender == nil {
		// The handler is only ever connected to signals; a missing sender
		// means the dispatch contract is broken and state can't be trusted.
		panic("sigscope: generic handler invoked without a sender")
	}

	mt := d.Sender.Metatype()
	for id := in.start; id < mt.MethodCount(); id++ {
		m := mt.Method(id)
		if m.Kind() != signals.KindSignal {
			continue
		}
		handle, ok := in.handles[id]
		if !ok {
			in.logger.Warn().Str("signal", m.String()).Msg("unexpected signal emitted")
			return
		}
		if handle.Count() > 0 {
			in.capture(m, handle)
			return
		}
	}
	in.logger.Warn().Msg("no pending emission found")
}

// capture drains the oldest pending firing from handle into the log and
// clears the handle so the signal's next firing is attributed freshly.
// Failures never propagate into the emitting call stack.
func (in *Inspector) capture(m signals.Method, handle signals.Observation) {
	if handle == nil || handle.Count() == 0 {
		in.logger.Warn().Str("signal", m.String()).Msg("unexpected signal emitted")
		return
	}

	rec := Record{
		Signal:    m,
		Timestamp: in.config.clock(),
		Args:      handle.At(0),
	}

	in.mu.Lock()
	if !in.closed {
		in.records = append(in.records, rec)
	}
	in.mu.Unlock()

	handle.Clear()
}
