package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/opencourse/aktiva/internal/invoice/domain"
)

type Service interface {
	// Classify looks up the prior activation for the pair and derives the
	// renewal/expiry state used by pricing and conflict checks.
	Classify(ctx context.Context, companyID, courseID snowflake.ID) (Classification, error)

	// Quote prices an activation without persisting anything.
	Quote(ctx context.Context, companyID, courseID snowflake.ID, seatCount int) (*QuoteResponse, error)

	// Create runs the full activation flow: validate, classify, price, then
	// persist the activation, invoice and line items in one transaction and
	// request a gateway checkout session.
	Create(ctx context.Context, req CreateRequest) (*CreateResponse, error)

	Get(ctx context.Context, id snowflake.ID) (*CourseActivation, error)
	List(ctx context.Context, companyID snowflake.ID) ([]CourseActivation, error)
}

type CreateRequest struct {
	CompanyID snowflake.ID `json:"company_id"`
	CourseID  snowflake.ID `json:"course_id"`
	SeatCount int          `json:"seat_count"`
	CreatedBy string       `json:"created_by"`
}

type QuoteResponse struct {
	Quote     Quote `json:"quote"`
	IsRenewal bool  `json:"is_renewal"`
}

type CreateResponse struct {
	Activation  *CourseActivation      `json:"activation"`
	Invoice     *invoicedomain.Invoice `json:"invoice"`
	Quote       Quote                  `json:"quote"`
	OrderID     string                 `json:"order_id"`
	CheckoutURL string                 `json:"checkout_url,omitempty"`
}

var (
	// ErrAlreadyActive rejects a new activation while a live one exists.
	ErrAlreadyActive = errors.New("activation_already_active")
	ErrNotFound      = errors.New("activation_not_found")
)
