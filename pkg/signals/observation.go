package signals

import "sync"

// Observation watches exactly one (object, signal) pair and keeps the
// argument values of every firing until cleared. It is the single-signal
// observation primitive the inspector builds its per-signal table from.
type Observation interface {
	// Count reports how many firings have been recorded since the last
	// Clear.
	Count() int

	// At returns the argument values of the i-th recorded firing, oldest
	// first, or nil if i is out of range.
	At(i int) []any

	// Clear discards every recorded firing.
	Clear()

	// Close stops watching the signal and discards the record.
	Close()
}

// Observe allocates an observation handle for the signal at method index id.
func (o *Object) Observe(id int) (Observation, error) {
	obs := &observation{}
	conn, err := o.connectRaw(id, obs.record)
	if err != nil {
		return nil, err
	}
	obs.conn = conn
	return obs, nil
}

type observation struct {
	conn *Connection

	mu      sync.Mutex
	firings [][]any
}

func (s *observation) record(args []any) {
	// snapshot so later mutation by the emitter cannot rewrite history
	values := make([]any, len(args))
	copy(values, args)

	s.mu.Lock()
	s.firings = append(s.firings, values)
	s.mu.Unlock()
}

func (s *observation) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.firings)
}

func (s *observation) At(i int) []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.firings) {
		return nil
	}
	return s.firings[i]
}

func (s *observation) Clear() {
	s.mu.Lock()
	s.firings = nil
	s.mu.Unlock()
}

func (s *observation) Close() {
	s.conn.Close()
	s.Clear()
}
