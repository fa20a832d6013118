package models

import (
	"time"
)

// Walk request statuses
const (
	WalkStatusRequested = "requested"
	WalkStatusActive    = "active"
	WalkStatusCompleted = "completed"
	WalkStatusCancelled = "cancelled"
)

// WalkRequest represents an escorted-walk request between two campus locations
// DB: walk_requests
type WalkRequest struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	RequesterID     uint       `gorm:"column:requester_id;not null;index:idx_walks_requester" json:"requester_id"`
	StartLocationID uint       `gorm:"column:start_location_id;not null" json:"start_location_id"`
	EndLocationID   uint       `gorm:"column:end_location_id;not null" json:"end_location_id"`
	RouteID         *uint      `gorm:"column:route_id" json:"route_id,omitempty"`
	Status          string     `gorm:"column:status;size:20;not null;default:'requested';index:idx_walks_status" json:"status"`
	Note            *string    `gorm:"column:note;type:text" json:"note,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;not null;autoUpdateTime" json:"updated_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	// Relations
	Requester     *User       `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	StartLocation *Location   `gorm:"foreignKey:StartLocationID" json:"start_location,omitempty"`
	EndLocation   *Location   `gorm:"foreignKey:EndLocationID" json:"end_location,omitempty"`
	Route         *Route      `gorm:"foreignKey:RouteID" json:"route,omitempty"`
	Buddies       []WalkBuddy `gorm:"foreignKey:WalkRequestID" json:"buddies,omitempty"`
}

func (WalkRequest) TableName() string {
	return "walk_requests"
}

// WalkBuddy links a user who joined a walk as an escort
// DB: walk_buddies
type WalkBuddy struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WalkRequestID uint      `gorm:"column:walk_request_id;not null;uniqueIndex:walk_buddies_walk_user_key,priority:1" json:"walk_request_id"`
	BuddyID       uint      `gorm:"column:buddy_id;not null;uniqueIndex:walk_buddies_walk_user_key,priority:2" json:"buddy_id"`
	JoinedAt      time.Time `gorm:"column:joined_at;not null;autoCreateTime" json:"joined_at"`

	// Relations
	Buddy *User `gorm:"foreignKey:BuddyID" json:"buddy,omitempty"`
}

func (WalkBuddy) TableName() string {
	return "walk_buddies"
}

// SOSAlert records an SOS escalation raised during a walk
// DB: sos_alerts
type SOSAlert struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	WalkRequestID uint       `gorm:"column:walk_request_id;not null;index:idx_sos_walk" json:"walk_request_id"`
	UserID        uint       `gorm:"column:user_id;not null" json:"user_id"`
	ReferenceCode string     `gorm:"column:reference_code;size:36;not null;uniqueIndex:sos_alerts_ref_key" json:"reference_code"`
	Latitude      *float64   `gorm:"column:latitude;type:double precision" json:"latitude,omitempty"`
	Longitude     *float64   `gorm:"column:longitude;type:double precision" json:"longitude,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
	ResolvedAt    *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`

	// Relations
	Walk *WalkRequest `gorm:"foreignKey:WalkRequestID" json:"walk,omitempty"`
	User *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (SOSAlert) TableName() string {
	return "sos_alerts"
}
