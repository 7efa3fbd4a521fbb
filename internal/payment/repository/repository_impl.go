package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/opencourse/aktiva/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() paymentdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *paymentdomain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*paymentdomain.Payment, error) {
	var payment paymentdomain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_id, company_id, course_activation_id, invoice_id, amount,
		 currency, status, transaction_number, description, created_at, updated_at
		 FROM payments WHERE order_id = ?`, orderID,
	).Scan(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*paymentdomain.Payment, error) {
	var payment paymentdomain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_id, company_id, course_activation_id, invoice_id, amount,
		 currency, status, transaction_number, description, created_at, updated_at
		 FROM payments WHERE id = ?`, id,
	).Scan(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status paymentdomain.PaymentStatus, transactionNumber string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE payments SET status = ?, transaction_number = ?, updated_at = ? WHERE id = ?`,
		status, transactionNumber, time.Now().UTC(), id,
	).Error
}
