package server

import "context"

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// Pinger is implemented by every store backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreHealthService reports the backing store as healthy when it answers a ping.
type StoreHealthService struct {
	Store Pinger
}

// Probe implements the HealthService interface.
func (s StoreHealthService) Probe(ctx context.Context) error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Ping(ctx)
}
