package engine

import "errors"

var (
	// ErrBusy indicates the world is already held by another caller.
	ErrBusy = errors.New("engine: world already connected")

	// ErrInvalidParams indicates a non-positive time step, iteration count or unknown integrator.
	ErrInvalidParams = errors.New("engine: invalid parameters")

	// ErrDisconnected indicates use of a world after its handle was released.
	ErrDisconnected = errors.New("engine: world disconnected")

	// ErrInvalidBody indicates a body with non-positive mass or radius.
	ErrInvalidBody = errors.New("engine: invalid body")
)
