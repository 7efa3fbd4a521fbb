// Package domain contains payment records and the gateway notification
// contract.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PaymentStatus represents payment lifecycle states.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment correlates a gateway checkout with the activation and invoice it
// pays for. OrderID is the opaque token handed to the gateway; it is distinct
// from the invoice number and is the only key the gateway echoes back.
type Payment struct {
	ID                 snowflake.ID  `json:"id" gorm:"primaryKey"`
	OrderID            string        `json:"order_id" gorm:"type:text;not null;uniqueIndex:ux_payments_order_id"`
	CompanyID          snowflake.ID  `json:"company_id" gorm:"not null;index"`
	CourseActivationID snowflake.ID  `json:"course_activation_id" gorm:"not null;index"`
	InvoiceID          snowflake.ID  `json:"invoice_id" gorm:"not null;index"`
	Amount             int64         `json:"amount" gorm:"not null"`
	Currency           string        `json:"currency" gorm:"type:text;not null"`
	Status             PaymentStatus `json:"status" gorm:"type:text;not null;default:'pending'"`
	TransactionNumber  string        `json:"transaction_number" gorm:"type:text"`
	Description        string        `json:"description" gorm:"type:text"`
	CreatedAt          time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// GatewayNotification is the form-encoded callback the gateway posts after a
// checkout attempt. ResponseCode "1" signals success; anything else is a
// failure.
type GatewayNotification struct {
	ResponseCode        string
	ResponseDescription string
	TransactionNumber   string
	OrderID             string
}

// Succeeded reports whether the notification signals a successful payment.
func (n GatewayNotification) Succeeded() bool { return n.ResponseCode == "1" }

// Webhook processing outcomes, recorded on the payment webhook counter.
const (
	OutcomePaid         = "paid"
	OutcomeFailed       = "failed"
	OutcomeReplay       = "replay"
	OutcomeUnknownOrder = "unknown_order"
)

var (
	ErrNotFound         = errors.New("payment_not_found")
	ErrAlreadyProcessed = errors.New("payment_already_processed")
	ErrGatewayRejected  = errors.New("gateway_rejected")
)
