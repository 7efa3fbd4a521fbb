package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id snowflake.ID) (*Response, error)
	List(ctx context.Context) ([]Response, error)

	UpsertPricing(ctx context.Context, req UpsertPricingRequest) (*CoursePricing, error)
	GetPricing(ctx context.Context, courseID snowflake.ID) (*CoursePricing, error)
}

type CreateRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

type UpsertPricingRequest struct {
	CourseID        snowflake.ID `json:"course_id"`
	SetupFee        int64        `json:"setup_fee"`
	ReactivationFee int64        `json:"reactivation_fee"`
	SeatFee         int64        `json:"seat_fee"`
	Currency        string       `json:"currency"`
}

type Response struct {
	ID          snowflake.ID `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

var (
	ErrInvalidTitle    = errors.New("invalid_title")
	ErrInvalidFee      = errors.New("invalid_fee")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrNotFound        = errors.New("course_not_found")
)
