// Package domain contains course activation models and the quote calculator.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ActivationStatus represents activation lifecycle states.
type ActivationStatus string

const (
	// StatusPendingPayment is the initial state; the activation is created
	// before checkout and only the gateway webhook moves it forward.
	StatusPendingPayment ActivationStatus = "pending_payment"
	StatusActive         ActivationStatus = "active"
	StatusExpired        ActivationStatus = "expired"
	StatusCancelled      ActivationStatus = "cancelled"
)

// CourseActivation is a company's paid right to assign one course to its
// employees for a fixed term. Expiry is evaluated at read time against
// ExpiresAt; nothing flips rows to expired in the background.
type CourseActivation struct {
	ID            snowflake.ID     `json:"id" gorm:"primaryKey"`
	CompanyID     snowflake.ID     `json:"company_id" gorm:"not null;index:idx_activations_company_course"`
	CourseID      snowflake.ID     `json:"course_id" gorm:"not null;index:idx_activations_company_course"`
	ActivatedAt   time.Time        `json:"activated_at" gorm:"not null"`
	ExpiresAt     time.Time        `json:"expires_at" gorm:"not null"`
	IsRenewal     bool             `json:"is_renewal" gorm:"not null;default:false"`
	Status        ActivationStatus `json:"status" gorm:"type:text;not null;default:'pending_payment'"`
	SeatCount     int              `json:"seat_count" gorm:"not null"`
	SetupFeePaid  int64            `json:"setup_fee_paid" gorm:"not null;default:0"`
	SeatFeePaid   int64            `json:"seat_fee_paid" gorm:"not null;default:0"`
	TotalPaid     int64            `json:"total_paid" gorm:"not null;default:0"`
	Currency      string           `json:"currency" gorm:"type:text;not null"`
	CreatedBy     string           `json:"created_by" gorm:"type:text"`
	CreatedAt     time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time        `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (CourseActivation) TableName() string { return "course_activations" }

// ExpiredAt reports whether the activation window has lapsed at the given time.
func (a *CourseActivation) ExpiredAt(now time.Time) bool {
	return a.ExpiresAt.Before(now)
}

// Classification is the renewal/expiry verdict for a (company, course) pair.
type Classification struct {
	IsRenewal bool              `json:"is_renewal"`
	Previous  *CourseActivation `json:"previous,omitempty"`
	IsExpired bool              `json:"is_expired"`
}
