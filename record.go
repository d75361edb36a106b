package sigscope

import (
	"encoding/json"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/sigscope/pkg/signals"
)

// Record is one captured signal emission.
type Record struct {
	// Signal identifies the exact signal signature that fired. Overloads of
	// the same name resolve to distinct methods.
	Signal signals.Method

	// Timestamp is when the inspector observed the emission. Under
	// synchronous dispatch this is the emission instant.
	Timestamp utc.Time

	// Args holds the values passed at the emission, in parameter order.
	// Lengths and types match the signal's formal parameter list.
	Args []any
}

// recordView is the serialized shape of a Record, for diagnostics dumps.
type recordView struct {
	Signal    string   `json:"signal" yaml:"signal"`
	Timestamp utc.Time `json:"timestamp" yaml:"timestamp"`
	Args      []any    `json:"args" yaml:"args"`
}

func (r Record) view() recordView {
	return recordView{
		Signal:    r.Signal.String(),
		Timestamp: r.Timestamp,
		Args:      r.Args,
	}
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.view())
}

// MarshalYAML implements yaml.InterfaceMarshaler for goccy/go-yaml.
func (r Record) MarshalYAML() (any, error) {
	return r.view(), nil
}

// Records is an ordered emission log, oldest first.
type Records []Record

// YAML renders the log as a YAML document, one entry per record. Meant for
// humans reading test failures, not for persistence.
func (rs Records) YAML() ([]byte, error) {
	return yaml.Marshal(rs)
}

// JSON renders the log as a JSON array.
func (rs Records) JSON() ([]byte, error) {
	return json.Marshal(rs)
}
