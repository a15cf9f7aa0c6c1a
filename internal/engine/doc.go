// Package engine is a small deterministic rigid-body engine: spheres under
// uniform gravity, an optional ground plane and distance constraints,
// stepped at a fixed rate.
//
// # Example
//
//	h := engine.NewHandle(engine.DefaultParams())
//	err := h.With(func(w *engine.World) error {
//	    w.AddGroundPlane()
//	    ball, _ := w.AddSphere(1, 0.1, engine.V(0, 0, 10.1), engine.Vec3{})
//	    for !w.InContact(ball) {
//	        if err := w.Step(); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	})
//
// # Thread Safety
//
// A [World] is single-threaded. [Handle] serialises access: only one caller
// holds the world at a time and others get [ErrBusy].
package engine
