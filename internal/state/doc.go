// Package state holds the simulation context of a session: the chain being
// simulated, the clipboard and the registry of methods running on it.
//
// Every operation takes plain image and chain indices. A negative index selects
// the active image (or the single chain); an index at or beyond the current
// count fails with data.ErrIndexOutOfRange before anything is changed.
//
// # Slots
//
// Each image is a slot, keyed by the image identity so the binding survives
// inserts and deletions around it. The chain is a slot of its own for path
// methods. A slot is occupied while its method is idle or running; dispatching
// onto an occupied slot fails with data.ErrSlotBusy. An image method and a
// chain method never run on the same chain at the same time.
//
// Example:
//
//	st, err := state.New(chain, state.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	m, err := st.Dispatch(engine.Relaxation, "", -1, -1)
//	if err != nil {
//	    return err
//	}
//	<-m.Done()
//
// # Thread Safety
//
// State is safe for concurrent use. Dispatched methods run on their own
// goroutines; Close stops them and waits for them to return.
package state
