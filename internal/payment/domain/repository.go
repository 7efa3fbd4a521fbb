package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*Payment, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status PaymentStatus, transactionNumber string) error
}
