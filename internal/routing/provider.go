// Package routing fetches walking routes from an external directions
// service. The provider is selected by configuration; the seeded variant
// never calls out and exists so precomputed deployments fail loudly if a
// fetch is attempted.
package routing

import (
	"context"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/ceh6514/mavwalk/server/internal/polyline"
)

// Coordinate is a numeric lat/lng pair handed to a provider.
type Coordinate struct {
	Lat float64
	Lng float64
}

// ComputedRoute is the provider-independent result of a fetch.
type ComputedRoute struct {
	Geometry       []polyline.Point
	Steps          []string
	EtaSeconds     *int
	DistanceMeters *int
	Summary        string
}

// Provider computes a walking route between two coordinates. The call is
// bounded by the context and by the provider's own timeout.
type Provider interface {
	FetchRoute(ctx context.Context, start, end Coordinate) (*ComputedRoute, error)
}

// SeededProvider serves deployments whose routes are populated ahead of
// time. Any fetch attempt is a configuration mismatch between the cache
// mode and the provider selection.
type SeededProvider struct{}

// NewSeededProvider returns the no-fetch provider.
func NewSeededProvider() *SeededProvider {
	return &SeededProvider{}
}

// FetchRoute always fails; seeded deployments must not reach the network.
func (p *SeededProvider) FetchRoute(ctx context.Context, start, end Coordinate) (*ComputedRoute, error) {
	return nil, apperr.Provider("on-demand routing disabled", nil)
}
