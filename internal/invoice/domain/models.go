// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusSent InvoiceStatus = "sent"
	InvoiceStatusPaid InvoiceStatus = "paid"
	InvoiceStatusVoid InvoiceStatus = "void"
)

// Line item types on an activation invoice.
const (
	ItemTypeSetupFee        = "setup_fee"
	ItemTypeReactivationFee = "reactivation_fee"
	ItemTypeSeatFee         = "seat_fee"
	ItemTypeTax             = "tax"
)

// Invoice represents a generated invoice. Amounts are integer minor units.
// InvoiceNumber is a display/business identifier; uniqueness is enforced by
// index, sequencing by the invoice_sequences row for the calendar year.
type Invoice struct {
	ID                 snowflake.ID      `json:"id" gorm:"primaryKey"`
	InvoiceNumber      string            `json:"invoice_number" gorm:"type:text;not null;uniqueIndex:ux_invoices_number"`
	CompanyID          snowflake.ID      `json:"company_id" gorm:"not null;index"`
	CourseActivationID snowflake.ID      `json:"course_activation_id" gorm:"not null;index"`
	Subtotal           int64             `json:"subtotal" gorm:"not null;default:0"`
	TaxRateBps         int64             `json:"tax_rate_bps" gorm:"not null;default:0"`
	TaxAmount          int64             `json:"tax_amount" gorm:"not null;default:0"`
	Total              int64             `json:"total" gorm:"not null;default:0"`
	Currency           string            `json:"currency" gorm:"type:text;not null"`
	Status             InvoiceStatus     `json:"status" gorm:"type:text;not null;default:'sent'"`
	DueDate            time.Time         `json:"due_date" gorm:"not null"`
	PaidAt             *time.Time        `json:"paid_at,omitempty"`
	CreatedBy          string            `json:"created_by" gorm:"type:text"`
	Metadata           datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt          time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Items []InvoiceItem `json:"items,omitempty" gorm:"-"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem represents a line on an invoice. Invariant: the sum of item
// amounts equals the invoice total.
type InvoiceItem struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	InvoiceID   snowflake.ID `json:"invoice_id" gorm:"not null;index"`
	ItemType    string       `json:"item_type" gorm:"type:text;not null"`
	Description string       `json:"description" gorm:"type:text"`
	Quantity    int64        `json:"quantity" gorm:"not null"`
	UnitAmount  int64        `json:"unit_amount" gorm:"not null"`
	Amount      int64        `json:"amount" gorm:"not null"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// InvoiceSequence allocates invoice numbers for one calendar year. The row is
// incremented atomically inside the invoice-creating transaction, so numbers
// never collide; gaps remain possible when a transaction rolls back.
type InvoiceSequence struct {
	Year      int       `json:"year" gorm:"primaryKey;autoIncrement:false"`
	LastValue int64     `json:"last_value" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceSequence) TableName() string { return "invoice_sequences" }
