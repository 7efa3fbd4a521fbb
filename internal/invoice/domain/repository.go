package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	InsertItems(ctx context.Context, db *gorm.DB, items []InvoiceItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]InvoiceItem, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]Invoice, error)
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// NextNumber atomically increments and returns the sequence value for the
	// year. Must run inside the same transaction as the invoice insert.
	NextNumber(ctx context.Context, db *gorm.DB, year int) (int64, error)
}
