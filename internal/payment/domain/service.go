package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// CreateCheckout persists a pending payment for the activation's invoice
	// and requests a hosted checkout session from the gateway. On gateway
	// rejection the payment is marked failed and ErrGatewayRejected is
	// returned wrapped with the gateway's reason.
	CreateCheckout(ctx context.Context, req CheckoutInput) (*CheckoutResult, error)

	// HandleNotification applies a gateway callback to the payment and its
	// activation and invoice. Replays for an already-terminal payment return
	// ErrAlreadyProcessed without touching any row.
	HandleNotification(ctx context.Context, n GatewayNotification) (string, error)

	Get(ctx context.Context, id snowflake.ID) (*Payment, error)
}

type CheckoutInput struct {
	CompanyID          snowflake.ID
	CourseActivationID snowflake.ID
	InvoiceID          snowflake.ID
	Amount             int64
	Currency           string
	Description        string
}

type CheckoutResult struct {
	OrderID     string
	RedirectURL string
}
