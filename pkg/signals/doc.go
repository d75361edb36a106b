// Package signals provides the runtime type model and dispatch primitives
// that sigscope inspectors observe: method tables with signal/method
// classification and inheritance, synchronous signal emission with overload
// resolution, generic (untyped) callback connections, and per-signal
// observation handles that capture argument values.
//
// Objects participate by embedding *Object and declaring their method table
// once per type:
//
//	var doorType = func() *signals.Type {
//		t := signals.NewType("Door", nil)
//		t.AddSignal("opened")
//		t.AddSignal("closed", reflect.TypeOf(""))
//		return t
//	}()
//
//	type Door struct {
//		*signals.Object
//	}
//
//	door := &Door{signals.NewObject(doorType)}
//	door.Emit("closed", "timeout")
//
// Dispatch is synchronous and runs on the emitting goroutine, in connection
// order. The package makes no cross-goroutine delivery guarantees; callers
// that emit from several goroutines must serialize externally.
package signals
