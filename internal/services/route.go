package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/ceh6514/mavwalk/server/internal/config"
	"github.com/ceh6514/mavwalk/server/internal/database"
	"github.com/ceh6514/mavwalk/server/internal/models"
	"github.com/ceh6514/mavwalk/server/internal/routing"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RouteService is the resolve-or-fetch cache in front of the routing
// provider. At most one stored route exists per ordered location pair; the
// composite unique index on routes is the authority under concurrent
// first-time resolution.
type RouteService struct {
	db       *database.DB
	cfg      *config.Config
	provider routing.Provider
	location *LocationService
}

func NewRouteService(db *database.DB, cfg *config.Config, provider routing.Provider) *RouteService {
	return &RouteService{
		db:       db,
		cfg:      cfg,
		provider: provider,
		location: NewLocationService(db),
	}
}

// Resolve returns the cached route for the ordered (start, end) pair,
// fetching and persisting it on a miss when on-demand routing is enabled.
// A miss without on-demand routing is ErrRouteNotFound.
func (s *RouteService) Resolve(ctx context.Context, startName, endName string) (*models.Route, error) {
	startName = strings.TrimSpace(startName)
	endName = strings.TrimSpace(endName)
	if startName == "" {
		return nil, apperr.Validation("start", "start location is required")
	}
	if endName == "" {
		return nil, apperr.Validation("end", "destination is required")
	}
	if startName == endName {
		return nil, apperr.Validation("end", "start and destination must differ")
	}

	start, err := s.location.GetByName(startName)
	if err != nil {
		return nil, err
	}
	end, err := s.location.GetByName(endName)
	if err != nil {
		return nil, err
	}

	route, err := s.getByPair(ctx, start.ID, end.ID)
	if err == nil {
		return route, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if !s.cfg.OnDemandRouting() || s.provider == nil {
		return nil, apperr.ErrRouteNotFound
	}

	log.Printf("[RouteCache] miss for %q -> %q, fetching from provider", startName, endName)
	computed, err := s.provider.FetchRoute(ctx,
		routing.Coordinate{Lat: start.Latitude, Lng: start.Longitude},
		routing.Coordinate{Lat: end.Latitude, Lng: end.Longitude})
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, start.ID, end.ID, computed); err != nil {
		return nil, err
	}
	return s.getByPair(ctx, start.ID, end.ID)
}

// getByPair loads a fully hydrated route: coordinates in position order,
// steps in step-number order.
func (s *RouteService) getByPair(ctx context.Context, startID, endID uint) (*models.Route, error) {
	var route models.Route
	err := s.db.WithContext(ctx).
		Preload("Coordinates", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_number ASC") }).
		Preload("StartLocation").
		Preload("EndLocation").
		Where("start_location_id = ? AND end_location_id = ?", startID, endID).
		First(&route).Error
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// persist upserts the route header and fully replaces its coordinate and
// step sequences in one transaction. A concurrent insert of the same pair
// resolves to an update via the unique-index conflict clause, never a
// duplicate row or a fatal error.
func (s *RouteService) persist(ctx context.Context, startID, endID uint, computed *routing.ComputedRoute) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		route := models.Route{
			StartLocationID: startID,
			EndLocationID:   endID,
			EtaSeconds:      computed.EtaSeconds,
			DistanceMeters:  computed.DistanceMeters,
			Summary:         computed.Summary,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "start_location_id"}, {Name: "end_location_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"eta_seconds":     computed.EtaSeconds,
				"distance_meters": computed.DistanceMeters,
				"summary":         computed.Summary,
			}),
		}).Create(&route).Error
		if err != nil {
			return err
		}
		// re-read the header: on the conflict path the driver does not
		// reliably report the existing row's id
		var header models.Route
		if err := tx.Where("start_location_id = ? AND end_location_id = ?", startID, endID).
			First(&header).Error; err != nil {
			return err
		}
		route.ID = header.ID

		for i, point := range computed.Geometry {
			coord := models.RouteCoordinate{
				RouteID:   route.ID,
				Position:  i,
				Latitude:  point.Lat,
				Longitude: point.Lng,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "route_id"}, {Name: "position"}},
				DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude"}),
			}).Create(&coord).Error
			if err != nil {
				return err
			}
		}
		// a shorter replacement set leaves no stale tail behind
		err = tx.Where("route_id = ? AND position >= ?", route.ID, len(computed.Geometry)).
			Delete(&models.RouteCoordinate{}).Error
		if err != nil {
			return err
		}

		for i, instruction := range computed.Steps {
			step := models.RouteStep{
				RouteID:     route.ID,
				StepNumber:  i + 1,
				Instruction: instruction,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "route_id"}, {Name: "step_number"}},
				DoUpdates: clause.AssignmentColumns([]string{"instruction"}),
			}).Create(&step).Error
			if err != nil {
				return err
			}
		}
		return tx.Where("route_id = ? AND step_number > ?", route.ID, len(computed.Steps)).
			Delete(&models.RouteStep{}).Error
	})
}
