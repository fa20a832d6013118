package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/ceh6514/mavwalk/server/internal/config"
	"github.com/ceh6514/mavwalk/server/internal/models"
	"github.com/ceh6514/mavwalk/server/internal/polyline"
	"github.com/ceh6514/mavwalk/server/internal/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

type fakeProvider struct {
	calls int
	route *routing.ComputedRoute
	err   error
}

func (p *fakeProvider) FetchRoute(ctx context.Context, start, end routing.Coordinate) (*routing.ComputedRoute, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.route, nil
}

func onDemandConfig() *config.Config {
	return &config.Config{RoutingProvider: "osrm", RouteCacheMode: "ondemand"}
}

func seededConfig() *config.Config {
	return &config.Config{RoutingProvider: "seeded", RouteCacheMode: "precompute"}
}

func threePointRoute() *routing.ComputedRoute {
	return &routing.ComputedRoute{
		Geometry: []polyline.Point{
			{Lat: 32.729513, Lng: -97.115278},
			{Lat: 32.730023, Lng: -97.114123},
			{Lat: 32.731456, Lng: -97.112789},
		},
		Steps:          []string{"Head north on Cooper Street", "Arrive."},
		EtaSeconds:     intPtr(372),
		DistanceMeters: intPtr(513),
		Summary:        "Walking route",
	}
}

func TestResolveFetchesAndCaches(t *testing.T) {
	db := setupTestDB(t)
	seedLocation(t, db, "Central Library", 32.729513, -97.115278)
	seedLocation(t, db, "University Center", 32.731654, -97.111184)

	provider := &fakeProvider{route: threePointRoute()}
	svc := NewRouteService(db, onDemandConfig(), provider)

	route, err := svc.Resolve(context.Background(), "Central Library", "University Center")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)

	require.Len(t, route.Coordinates, 3)
	for i, c := range route.Coordinates {
		assert.Equal(t, i, c.Position)
	}
	require.Len(t, route.Steps, 2)
	assert.Equal(t, 1, route.Steps[0].StepNumber)
	assert.Equal(t, "Head north on Cooper Street", route.Steps[0].Instruction)
	require.NotNil(t, route.EtaSeconds)
	assert.Equal(t, 372, *route.EtaSeconds)

	// second resolution is served from the cache
	again, err := svc.Resolve(context.Background(), "Central Library", "University Center")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, route.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.Route{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResolveDirectionality(t *testing.T) {
	db := setupTestDB(t)
	seedLocation(t, db, "Central Library", 32.729513, -97.115278)
	seedLocation(t, db, "University Center", 32.731654, -97.111184)

	provider := &fakeProvider{route: threePointRoute()}
	svc := NewRouteService(db, onDemandConfig(), provider)

	forward, err := svc.Resolve(context.Background(), "Central Library", "University Center")
	require.NoError(t, err)
	reverse, err := svc.Resolve(context.Background(), "University Center", "Central Library")
	require.NoError(t, err)

	assert.NotEqual(t, forward.ID, reverse.ID)
	assert.Equal(t, 2, provider.calls)
}

func TestResolveSeededModeMiss(t *testing.T) {
	db := setupTestDB(t)
	seedLocation(t, db, "Central Library", 32.729513, -97.115278)
	seedLocation(t, db, "University Center", 32.731654, -97.111184)

	provider := &fakeProvider{route: threePointRoute()}
	svc := NewRouteService(db, seededConfig(), provider)

	_, err := svc.Resolve(context.Background(), "Central Library", "University Center")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrRouteNotFound)
	assert.Zero(t, provider.calls)
}

func TestResolveUnknownLocation(t *testing.T) {
	db := setupTestDB(t)
	seedLocation(t, db, "Central Library", 32.729513, -97.115278)

	svc := NewRouteService(db, onDemandConfig(), &fakeProvider{route: threePointRoute()})

	_, err := svc.Resolve(context.Background(), "Central Library", "Nowhere Hall")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestResolveIdenticalPair(t *testing.T) {
	db := setupTestDB(t)
	seedLocation(t, db, "Central Library", 32.729513, -97.115278)

	svc := NewRouteService(db, onDemandConfig(), &fakeProvider{route: threePointRoute()})

	_, err := svc.Resolve(context.Background(), "Central Library", "Central Library")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestResolveProviderFailure(t *testing.T) {
	db := setupTestDB(t)
	seedLocation(t, db, "Central Library", 32.729513, -97.115278)
	seedLocation(t, db, "University Center", 32.731654, -97.111184)

	provider := &fakeProvider{err: apperr.Provider("routing request failed", errors.New("timeout"))}
	svc := NewRouteService(db, onDemandConfig(), provider)

	_, err := svc.Resolve(context.Background(), "Central Library", "University Center")
	require.Error(t, err)
	assert.True(t, apperr.IsProvider(err))

	// a failed fetch persists nothing
	var count int64
	require.NoError(t, db.Model(&models.Route{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestReplacementTrimsTrailingRows(t *testing.T) {
	db := setupTestDB(t)
	start := seedLocation(t, db, "Central Library", 32.729513, -97.115278)
	end := seedLocation(t, db, "University Center", 32.731654, -97.111184)

	svc := NewRouteService(db, onDemandConfig(), &fakeProvider{})
	ctx := context.Background()

	require.NoError(t, svc.persist(ctx, start.ID, end.ID, threePointRoute()))

	shorter := &routing.ComputedRoute{
		Geometry:       []polyline.Point{{Lat: 32.7295, Lng: -97.1152}},
		Steps:          []string{"Continue straight."},
		EtaSeconds:     intPtr(100),
		DistanceMeters: intPtr(90),
		Summary:        "Walking route",
	}
	require.NoError(t, svc.persist(ctx, start.ID, end.ID, shorter))

	route, err := svc.getByPair(ctx, start.ID, end.ID)
	require.NoError(t, err)
	assert.Len(t, route.Coordinates, 1)
	assert.Len(t, route.Steps, 1)
	require.NotNil(t, route.EtaSeconds)
	assert.Equal(t, 100, *route.EtaSeconds)

	var count int64
	require.NoError(t, db.Model(&models.Route{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
