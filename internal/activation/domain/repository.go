package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, activation *CourseActivation) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*CourseActivation, error)
	ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]CourseActivation, error)

	// FindLatest returns the most-recently-expiring activation for the pair,
	// or nil when the company never activated the course.
	FindLatest(ctx context.Context, db *gorm.DB, companyID, courseID snowflake.ID) (*CourseActivation, error)

	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status ActivationStatus) error
}
