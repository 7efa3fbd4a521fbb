package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// ResolveEffectivePrice walks the override hierarchy for the pair. A
	// missing pricing row resolves to zero fees and the default currency;
	// course/company existence is the caller's concern.
	ResolveEffectivePrice(ctx context.Context, courseID, companyID snowflake.ID) (EffectivePricing, error)

	PutOverride(ctx context.Context, req PutOverrideRequest) (*CompanyPricingOverride, error)
	DeleteOverride(ctx context.Context, id snowflake.ID) error
	ListOverrides(ctx context.Context, companyID snowflake.ID) ([]CompanyPricingOverride, error)
}

type PutOverrideRequest struct {
	CompanyID               snowflake.ID  `json:"company_id"`
	CourseID                *snowflake.ID `json:"course_id"`
	SetupFeeOverride        *int64        `json:"setup_fee_override"`
	ReactivationFeeOverride *int64        `json:"reactivation_fee_override"`
	SeatFeeOverride         *int64        `json:"seat_fee_override"`
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidFee     = errors.New("invalid_fee")
	ErrEmptyOverride  = errors.New("empty_override")
	ErrNotFound       = errors.New("override_not_found")
)
