package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/opencourse/aktiva/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() invoicedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, inv *invoicedomain.Invoice) error {
	return db.WithContext(ctx).Create(inv).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []invoicedomain.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var inv invoicedomain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_number, company_id, course_activation_id, subtotal,
		 tax_rate_bps, tax_amount, total, currency, status, due_date, paid_at,
		 created_by, metadata, created_at, updated_at
		 FROM invoices WHERE id = ?`, id,
	).Scan(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == 0 {
		return nil, nil
	}
	return &inv, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]invoicedomain.InvoiceItem, error) {
	var items []invoicedomain.InvoiceItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_id, item_type, description, quantity, unit_amount, amount, created_at
		 FROM invoice_items WHERE invoice_id = ? ORDER BY id ASC`, invoiceID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]invoicedomain.Invoice, error) {
	var items []invoicedomain.Invoice
	query := `SELECT id, invoice_number, company_id, course_activation_id, subtotal,
		 tax_rate_bps, tax_amount, total, currency, status, due_date, paid_at,
		 created_by, metadata, created_at, updated_at
		 FROM invoices`
	var err error
	if companyID != 0 {
		err = db.WithContext(ctx).Raw(query+` WHERE company_id = ? ORDER BY created_at DESC`, companyID).Scan(&items).Error
	} else {
		err = db.WithContext(ctx).Raw(query + ` ORDER BY created_at DESC`).Scan(&items).Error
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	now := time.Now().UTC()
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET status = ?, paid_at = ?, updated_at = ? WHERE id = ?`,
		invoicedomain.InvoiceStatusPaid, now, now, id,
	).Error
}

// NextNumber upsert-increments the per-year sequence row and returns the new
// value in one statement, so concurrent invoice creations never read the same
// count. RETURNING is supported by the postgres and sqlite dialects in use.
func (r *repo) NextNumber(ctx context.Context, db *gorm.DB, year int) (int64, error) {
	var lastValue int64
	err := db.WithContext(ctx).Raw(
		`INSERT INTO invoice_sequences (year, last_value, updated_at)
		 VALUES (?, 1, ?)
		 ON CONFLICT (year) DO UPDATE
		 SET last_value = invoice_sequences.last_value + 1, updated_at = excluded.updated_at
		 RETURNING last_value`,
		year, time.Now().UTC(),
	).Scan(&lastValue).Error
	if err != nil {
		return 0, err
	}
	return lastValue, nil
}
