package gateway

import "sync/atomic"

// Holder publishes the active Gateway. Configuration reloads build a new
// Gateway and Swap it in; requests already running keep the one they loaded.
type Holder struct {
	current atomic.Pointer[Gateway]
}

// NewHolder creates a holder publishing gw.
func NewHolder(gw *Gateway) *Holder {
	h := &Holder{}
	h.current.Store(gw)
	return h
}

// Load returns the active gateway.
func (h *Holder) Load() *Gateway {
	return h.current.Load()
}

// Swap publishes gw and returns the previous gateway. The caller decides when
// to Close the previous one.
func (h *Holder) Swap(gw *Gateway) *Gateway {
	return h.current.Swap(gw)
}
