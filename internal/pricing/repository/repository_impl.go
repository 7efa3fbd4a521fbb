package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/opencourse/aktiva/internal/pricing/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() pricingdomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, o *pricingdomain.CompanyPricingOverride) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"setup_fee_override", "reactivation_fee_override", "seat_fee_override", "updated_at",
		}),
	}).Create(o).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM company_pricing_overrides WHERE id = ?`, id,
	).Error
}

func (r *repo) ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]pricingdomain.CompanyPricingOverride, error) {
	var items []pricingdomain.CompanyPricingOverride
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, course_id, setup_fee_override, reactivation_fee_override,
		 seat_fee_override, created_at, updated_at
		 FROM company_pricing_overrides WHERE company_id = ? ORDER BY created_at ASC`,
		companyID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindCourseScoped(ctx context.Context, db *gorm.DB, companyID, courseID snowflake.ID) (*pricingdomain.CompanyPricingOverride, error) {
	var o pricingdomain.CompanyPricingOverride
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, course_id, setup_fee_override, reactivation_fee_override,
		 seat_fee_override, created_at, updated_at
		 FROM company_pricing_overrides WHERE company_id = ? AND course_id = ?`,
		companyID, courseID,
	).Scan(&o).Error
	if err != nil {
		return nil, err
	}
	if o.ID == 0 {
		return nil, nil
	}
	return &o, nil
}

func (r *repo) FindCompanyWide(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*pricingdomain.CompanyPricingOverride, error) {
	var o pricingdomain.CompanyPricingOverride
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, course_id, setup_fee_override, reactivation_fee_override,
		 seat_fee_override, created_at, updated_at
		 FROM company_pricing_overrides WHERE company_id = ? AND course_id IS NULL`,
		companyID,
	).Scan(&o).Error
	if err != nil {
		return nil, err
	}
	if o.ID == 0 {
		return nil, nil
	}
	return &o, nil
}
