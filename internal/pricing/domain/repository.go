package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, override *CompanyPricingOverride) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]CompanyPricingOverride, error)

	// FindCourseScoped returns the override matching both company and course,
	// or nil when none exists.
	FindCourseScoped(ctx context.Context, db *gorm.DB, companyID, courseID snowflake.ID) (*CompanyPricingOverride, error)

	// FindCompanyWide returns the company's override with no course scope,
	// or nil when none exists.
	FindCompanyWide(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*CompanyPricingOverride, error)
}
