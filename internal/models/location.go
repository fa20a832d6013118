package models

import (
	"time"
)

// Location represents a named campus location
// DB: locations
type Location struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:255;not null;uniqueIndex:locations_name_key" json:"name"`
	Latitude  float64   `gorm:"column:latitude;type:double precision;not null" json:"latitude"`
	Longitude float64   `gorm:"column:longitude;type:double precision;not null" json:"longitude"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"created_at"`
}

func (Location) TableName() string {
	return "locations"
}
