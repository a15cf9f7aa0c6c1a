package engine

import "sync"

// Handle owns the one world a simulator may use. Connect acquires it
// exclusively; a second Connect before Disconnect fails with ErrBusy.
type Handle struct {
	params Params

	mu    sync.Mutex
	world *World
}

func NewHandle(p Params) *Handle {
	return &Handle{params: p}
}

func (h *Handle) Params() Params { return h.params }

// Connect builds a fresh world. Every call starts from an empty scene.
func (h *Handle) Connect() (*World, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.world != nil {
		return nil, ErrBusy
	}
	w, err := newWorld(h.params)
	if err != nil {
		return nil, err
	}
	h.world = w
	return w, nil
}

func (h *Handle) Disconnect() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.world != nil {
		h.world.closed = true
		h.world = nil
	}
}

func (h *Handle) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.world != nil
}

// With connects, runs fn and always disconnects, including when fn panics.
func (h *Handle) With(fn func(*World) error) error {
	w, err := h.Connect()
	if err != nil {
		return err
	}
	defer h.Disconnect()
	return fn(w)
}
