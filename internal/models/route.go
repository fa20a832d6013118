package models

import (
	"time"
)

// Route represents a computed walking route between two locations.
// Direction matters: (A, B) and (B, A) are distinct rows. The composite
// unique index is the authority against duplicate rows under concurrent
// first-time resolution.
// DB: routes
type Route struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	StartLocationID uint      `gorm:"column:start_location_id;not null;uniqueIndex:routes_start_end_key,priority:1" json:"start_location_id"`
	EndLocationID   uint      `gorm:"column:end_location_id;not null;uniqueIndex:routes_start_end_key,priority:2" json:"end_location_id"`
	EtaSeconds      *int      `gorm:"column:eta_seconds" json:"eta_seconds,omitempty"`
	DistanceMeters  *int      `gorm:"column:distance_meters" json:"distance_meters,omitempty"`
	Summary         string    `gorm:"column:summary;size:255" json:"summary"`
	CreatedAt       time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`

	// Relations
	StartLocation *Location         `gorm:"foreignKey:StartLocationID" json:"start_location,omitempty"`
	EndLocation   *Location         `gorm:"foreignKey:EndLocationID" json:"end_location,omitempty"`
	Coordinates   []RouteCoordinate `gorm:"foreignKey:RouteID" json:"coordinates,omitempty"`
	Steps         []RouteStep       `gorm:"foreignKey:RouteID" json:"steps,omitempty"`
}

func (Route) TableName() string {
	return "routes"
}

// RouteCoordinate is one point of a route's geometry, ordered by position.
// Recomputation fully replaces the sequence; trailing rows beyond the new
// count are deleted.
// DB: route_coordinates
type RouteCoordinate struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	RouteID   uint    `gorm:"column:route_id;not null;uniqueIndex:route_coords_route_pos_key,priority:1" json:"route_id"`
	Position  int     `gorm:"column:position;not null;uniqueIndex:route_coords_route_pos_key,priority:2" json:"position"`
	Latitude  float64 `gorm:"column:latitude;type:double precision;not null" json:"latitude"`
	Longitude float64 `gorm:"column:longitude;type:double precision;not null" json:"longitude"`
}

func (RouteCoordinate) TableName() string {
	return "route_coordinates"
}

// RouteStep is one turn-by-turn instruction, numbered from 1.
// DB: route_steps
type RouteStep struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RouteID     uint   `gorm:"column:route_id;not null;uniqueIndex:route_steps_route_num_key,priority:1" json:"route_id"`
	StepNumber  int    `gorm:"column:step_number;not null;uniqueIndex:route_steps_route_num_key,priority:2" json:"step_number"`
	Instruction string `gorm:"column:instruction;type:text;not null" json:"instruction"`
}

func (RouteStep) TableName() string {
	return "route_steps"
}
