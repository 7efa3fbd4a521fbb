// Package domain contains the company pricing override model and the
// effective-price resolution rules.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CompanyPricingOverride adjusts course fees for one company. A nil CourseID
// applies the override to every course the company activates; a set CourseID
// scopes it to that course only. Nil fee fields fall through to the next
// pricing tier instead of overriding to zero.
type CompanyPricingOverride struct {
	ID                      snowflake.ID  `json:"id" gorm:"primaryKey"`
	CompanyID               snowflake.ID  `json:"company_id" gorm:"not null;index:idx_pricing_overrides_company"`
	CourseID                *snowflake.ID `json:"course_id,omitempty" gorm:"index:idx_pricing_overrides_company"`
	SetupFeeOverride        *int64        `json:"setup_fee_override,omitempty"`
	ReactivationFeeOverride *int64        `json:"reactivation_fee_override,omitempty"`
	SeatFeeOverride         *int64        `json:"seat_fee_override,omitempty"`
	CreatedAt               time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt               time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (CompanyPricingOverride) TableName() string { return "company_pricing_overrides" }

// EffectivePricing is the fully resolved price list for a (course, company)
// pair. Every field is populated after resolution.
type EffectivePricing struct {
	SetupFee        int64  `json:"setup_fee"`
	ReactivationFee int64  `json:"reactivation_fee"`
	SeatFee         int64  `json:"seat_fee"`
	Currency        string `json:"currency"`
}
