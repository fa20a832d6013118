package models

import (
	"time"
)

// Message statuses
const (
	MessageStatusPending  = "pending"
	MessageStatusApproved = "approved"
	MessageStatusRejected = "rejected"
)

// IsValidMessageStatus reports whether s is a known message status.
func IsValidMessageStatus(s string) bool {
	switch s {
	case MessageStatusPending, MessageStatusApproved, MessageStatusRejected:
		return true
	}
	return false
}

// Message represents an encouragement message submitted by a user.
// The stored text is already masked by the content filter.
// DB: messages
type Message struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Text              string     `gorm:"column:text;size:280;not null" json:"text"`
	Status            string     `gorm:"column:status;size:20;not null;default:'pending';index:idx_messages_status" json:"status"`
	ProfanityCategory string     `gorm:"column:profanity_category;size:20;not null" json:"profanity_category"`
	StartLocationID   *uint      `gorm:"column:start_location_id" json:"start_location_id,omitempty"`
	EndLocationID     *uint      `gorm:"column:end_location_id" json:"end_location_id,omitempty"`
	RouteID           *uint      `gorm:"column:route_id" json:"route_id,omitempty"`
	ReviewedBy        *uint      `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewNotes       *string    `gorm:"column:review_notes;type:text" json:"review_notes,omitempty"`
	ReviewedAt        *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at;not null;autoCreateTime;index:idx_messages_created,sort:desc" json:"created_at"`

	// Relations
	StartLocation *Location `gorm:"foreignKey:StartLocationID" json:"start_location,omitempty"`
	EndLocation   *Location `gorm:"foreignKey:EndLocationID" json:"end_location,omitempty"`
	Route         *Route    `gorm:"foreignKey:RouteID" json:"route,omitempty"`
	Reviewer      *User     `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
