package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Service interface {
	// CreateForActivation issues the invoice and its line items inside the
	// caller's transaction so the activation and invoice commit together.
	CreateForActivation(ctx context.Context, tx *gorm.DB, req CreateForActivationRequest) (*Invoice, error)

	GetByID(ctx context.Context, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, companyID snowflake.ID) ([]Invoice, error)

	// MarkPaid flips the invoice to paid inside the caller's transaction.
	MarkPaid(ctx context.Context, tx *gorm.DB, id snowflake.ID) error
}

// LineInput is one priced line to place on the invoice.
type LineInput struct {
	ItemType    string
	Description string
	Quantity    int64
	UnitAmount  int64
	Amount      int64
}

type CreateForActivationRequest struct {
	CompanyID          snowflake.ID
	CourseActivationID snowflake.ID
	Subtotal           int64
	TaxRateBps         int64
	TaxAmount          int64
	Total              int64
	Currency           string
	DueDate            time.Time
	CreatedBy          string
	Lines              []LineInput
}

var (
	ErrNotFound      = errors.New("invoice_not_found")
	ErrLineMismatch  = errors.New("invoice_line_mismatch")
	ErrInvalidAmount = errors.New("invalid_amount")
)
