package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/opencourse/aktiva/internal/company/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() companydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, c *companydomain.Company) error {
	return db.WithContext(ctx).Create(c).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*companydomain.Company, error) {
	var c companydomain.Company
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, created_at, updated_at FROM companies WHERE id = ?`, id,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]companydomain.Company, error) {
	var items []companydomain.Company
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, created_at, updated_at FROM companies ORDER BY created_at ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
