package sigscope_test

import (
	"reflect"
	"testing"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sigscope"
	pkgerrors "github.com/agentstation/sigscope/pkg/errors"
	"github.com/agentstation/sigscope/pkg/logging"
	"github.com/agentstation/sigscope/pkg/signals"
)

var (
	stringType = reflect.TypeOf("")
	intType    = reflect.TypeOf(0)
	boolType   = reflect.TypeOf(false)
)

// Device <- Door models the inheritance cases: Door declares two signals of
// its own on top of one inherited signal and a couple of plain methods.
var (
	deviceType = func() *signals.Type {
		t := signals.NewType("Device", nil)
		t.AddSignal("powered", boolType)
		t.AddMethod("reset")
		return t
	}()

	doorType = func() *signals.Type {
		t := signals.NewType("Door", deviceType)
		t.AddSignal("opened")
		t.AddSignal("closed", stringType)
		t.AddMethod("open")
		return t
	}()

	valveType = func() *signals.Type {
		t := signals.NewType("Valve", nil)
		t.AddSignal("changed")
		t.AddSignal("changed", intType)
		t.AddSignal("flushed", boolType)
		return t
	}()
)

type door struct {
	*signals.Object
}

func newDoor() *door {
	return &door{signals.NewObject(doorType)}
}

func newValve() *signals.Object {
	return signals.NewObject(valveType)
}

func signatures(ms []signals.Method) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Signature().String()
	}
	return out
}

func TestDiscovery(t *testing.T) {
	t.Run("inherited signals included by default", func(t *testing.T) {
		insp, err := sigscope.New(newDoor())
		require.NoError(t, err)
		defer insp.Close()

		assert.Equal(t,
			[]string{"powered(bool)", "opened()", "closed(string)"},
			signatures(insp.Signals()))
	})

	t.Run("own signals only", func(t *testing.T) {
		insp, err := sigscope.New(newDoor(), sigscope.WithInheritedSignals(false))
		require.NoError(t, err)
		defer insp.Close()

		assert.Equal(t,
			[]string{"opened()", "closed(string)"},
			signatures(insp.Signals()))
	})

	t.Run("overloads are discovered separately", func(t *testing.T) {
		insp, err := sigscope.New(newValve())
		require.NoError(t, err)
		defer insp.Close()

		assert.Equal(t,
			[]string{"changed()", "changed(int)", "flushed(bool)"},
			signatures(insp.Signals()))
	})

	t.Run("nil target", func(t *testing.T) {
		_, err := sigscope.New(nil)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})
}

func TestDoorScenario(t *testing.T) {
	d := newDoor()
	insp, err := sigscope.New(d)
	require.NoError(t, err)
	defer insp.Close()

	require.NoError(t, d.Emit("opened"))
	require.NoError(t, d.Emit("closed", "timeout"))

	records := insp.Records()
	require.Len(t, records, 2)

	assert.Equal(t, "Door.opened()", records[0].Signal.String())
	assert.Empty(t, records[0].Args)

	assert.Equal(t, "Door.closed(string)", records[1].Signal.String())
	assert.Equal(t, []any{"timeout"}, records[1].Args)

	assert.False(t, records[0].Timestamp.After(records[1].Timestamp),
		"timestamps must be non-decreasing")
}

func TestEmissionOrdering(t *testing.T) {
	d := newDoor()
	insp, err := sigscope.New(d)
	require.NoError(t, err)
	defer insp.Close()

	reasons := []string{"timeout", "manual", "draft", "manual", "alarm"}
	for _, reason := range reasons {
		require.NoError(t, d.Emit("closed", reason))
	}

	require.Equal(t, len(reasons), insp.Len())
	for i, reason := range reasons {
		rec := insp.At(i)
		assert.Equal(t, "closed(string)", rec.Signal.Signature().String())
		assert.Equal(t, []any{reason}, rec.Args)
	}
}

func TestArgumentFidelity(t *testing.T) {
	typ := signals.NewType("Gauge", nil)
	typ.AddSignal("sampled", intType, stringType)
	gauge := signals.NewObject(typ)

	insp, err := sigscope.New(gauge)
	require.NoError(t, err)
	defer insp.Close()

	require.NoError(t, gauge.Emit("sampled", 42, "x"))

	require.Equal(t, 1, insp.Len())
	rec := insp.At(0)
	require.Len(t, rec.Args, 2)
	assert.Equal(t, 42, rec.Args[0])
	assert.Equal(t, "x", rec.Args[1])
}

func TestNonInterference(t *testing.T) {
	d := newDoor()
	insp, err := sigscope.New(d)
	require.NoError(t, err)
	defer insp.Close()

	require.NoError(t, d.Emit("opened"))

	records := insp.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "opened", records[0].Signal.Name())
}

func TestRepeatedFirings(t *testing.T) {
	// Each firing must land as its own record, never merged with the
	// previous one.
	d := newDoor()
	insp, err := sigscope.New(d)
	require.NoError(t, err)
	defer insp.Close()

	require.NoError(t, d.Emit("opened"))
	require.NoError(t, d.Emit("opened"))
	require.NoError(t, d.Emit("opened"))

	require.Equal(t, 3, insp.Len())
	for i := 0; i < 3; i++ {
		assert.Equal(t, "opened", insp.At(i).Signal.Name())
		assert.Empty(t, insp.At(i).Args)
	}
}

func TestInstanceIsolation(t *testing.T) {
	front, back := newDoor(), newDoor()

	frontInsp, err := sigscope.New(front)
	require.NoError(t, err)
	defer frontInsp.Close()

	backInsp, err := sigscope.New(back)
	require.NoError(t, err)
	defer backInsp.Close()

	assert.NotEqual(t, frontInsp.ID(), backInsp.ID())

	require.NoError(t, front.Emit("opened"))
	require.NoError(t, back.Emit("closed", "timeout"))

	require.Equal(t, 1, frontInsp.Len())
	assert.Equal(t, "opened", frontInsp.At(0).Signal.Name())

	require.Equal(t, 1, backInsp.Len())
	assert.Equal(t, "closed", backInsp.At(0).Signal.Name())
}

func TestScanDispatch(t *testing.T) {
	t.Run("ordering and arguments", func(t *testing.T) {
		d := newDoor()
		insp, err := sigscope.New(d, sigscope.WithScanDispatch(true))
		require.NoError(t, err)
		defer insp.Close()

		require.NoError(t, d.Emit("opened"))
		require.NoError(t, d.Emit("closed", "timeout"))
		require.NoError(t, d.Emit("powered", true))

		records := insp.Records()
		require.Len(t, records, 3)
		assert.Equal(t, "opened()", records[0].Signal.Signature().String())
		assert.Equal(t, "closed(string)", records[1].Signal.Signature().String())
		assert.Equal(t, "powered(bool)", records[2].Signal.Signature().String())
		assert.Equal(t, []any{"timeout"}, records[1].Args)
		assert.Equal(t, []any{true}, records[2].Args)
	})

	t.Run("overloads attribute correctly under one firing at a time", func(t *testing.T) {
		v := newValve()
		insp, err := sigscope.New(v, sigscope.WithScanDispatch(true))
		require.NoError(t, err)
		defer insp.Close()

		require.NoError(t, v.Emit("changed", 7))
		require.NoError(t, v.Emit("changed"))
		require.NoError(t, v.Emit("changed", 8))

		records := insp.Records()
		require.Len(t, records, 3)
		assert.Equal(t, "changed(int)", records[0].Signal.Signature().String())
		assert.Equal(t, []any{7}, records[0].Args)
		assert.Equal(t, "changed()", records[1].Signal.Signature().String())
		assert.Equal(t, "changed(int)", records[2].Signal.Signature().String())
		assert.Equal(t, []any{8}, records[2].Args)
	})

	t.Run("own signals only ignores ancestor emissions", func(t *testing.T) {
		d := newDoor()
		insp, err := sigscope.New(d,
			sigscope.WithScanDispatch(true),
			sigscope.WithInheritedSignals(false))
		require.NoError(t, err)
		defer insp.Close()

		require.NoError(t, d.Emit("powered", true))
		require.NoError(t, d.Emit("opened"))

		records := insp.Records()
		require.Len(t, records, 1)
		assert.Equal(t, "opened", records[0].Signal.Name())
	})
}

func TestClose(t *testing.T) {
	d := newDoor()
	insp, err := sigscope.New(d)
	require.NoError(t, err)

	require.NoError(t, d.Emit("opened"))
	insp.Close()
	insp.Close() // idempotent
	require.NoError(t, d.Emit("opened"))

	assert.Equal(t, 1, insp.Len(), "log must stay readable but frozen after Close")
}

func TestWithClock(t *testing.T) {
	fixed := utc.Now()
	d := newDoor()
	insp, err := sigscope.New(d, sigscope.WithClock(func() utc.Time { return fixed }))
	require.NoError(t, err)
	defer insp.Close()

	require.NoError(t, d.Emit("opened"))
	assert.Equal(t, fixed, insp.At(0).Timestamp)
}

func TestOptionValidation(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		_, err := sigscope.New(newDoor(), sigscope.WithLogger(nil))
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})

	t.Run("nil clock", func(t *testing.T) {
		_, err := sigscope.New(newDoor(), sigscope.WithClock(nil))
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})
}

func TestDiagnostics(t *testing.T) {
	tl := logging.NewTestLogger(t)

	d := newDoor()
	insp, err := sigscope.New(d, sigscope.WithLogger(tl.Logger))
	require.NoError(t, err)
	defer insp.Close()

	tl.AssertContains(t, "signal discovery complete")
	tl.AssertContains(t, insp.ID())

	tl.Clear()
	require.NoError(t, d.Emit("closed", "timeout"))
	tl.AssertNotContains(t, "unexpected signal emitted")
	tl.AssertNotContains(t, "no pending emission found")
}
