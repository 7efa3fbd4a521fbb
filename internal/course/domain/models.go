// Package domain contains persistence models for the course catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Course is a sellable catalog entry.
type Course struct {
	ID          snowflake.ID      `json:"id" gorm:"primaryKey"`
	Title       string            `json:"title" gorm:"type:text;not null"`
	Description string            `json:"description,omitempty" gorm:"type:text"`
	Active      bool              `json:"active" gorm:"not null;default:true"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Course) TableName() string { return "courses" }

// CoursePricing is the global default price list for one course.
// All fees are integer minor units of Currency.
type CoursePricing struct {
	CourseID        snowflake.ID `json:"course_id" gorm:"primaryKey"`
	SetupFee        int64        `json:"setup_fee" gorm:"not null;default:0"`
	ReactivationFee int64        `json:"reactivation_fee" gorm:"not null;default:0"`
	SeatFee         int64        `json:"seat_fee" gorm:"not null;default:0"`
	Currency        string       `json:"currency" gorm:"type:text;not null"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (CoursePricing) TableName() string { return "course_pricing" }
