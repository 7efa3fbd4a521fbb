package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	coursedomain "github.com/opencourse/aktiva/internal/course/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() coursedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, c *coursedomain.Course) error {
	return db.WithContext(ctx).Create(c).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*coursedomain.Course, error) {
	var c coursedomain.Course
	err := db.WithContext(ctx).Raw(
		`SELECT id, title, description, active, metadata, created_at, updated_at
		 FROM courses WHERE id = ?`, id,
	).Scan(&c).Error
	if err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]coursedomain.Course, error) {
	var items []coursedomain.Course
	err := db.WithContext(ctx).Raw(
		`SELECT id, title, description, active, metadata, created_at, updated_at
		 FROM courses ORDER BY created_at ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpsertPricing(ctx context.Context, db *gorm.DB, p *coursedomain.CoursePricing) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"setup_fee", "reactivation_fee", "seat_fee", "currency", "updated_at",
		}),
	}).Create(p).Error
}

func (r *repo) FindPricing(ctx context.Context, db *gorm.DB, courseID snowflake.ID) (*coursedomain.CoursePricing, error) {
	var p coursedomain.CoursePricing
	err := db.WithContext(ctx).Raw(
		`SELECT course_id, setup_fee, reactivation_fee, seat_fee, currency, created_at, updated_at
		 FROM course_pricing WHERE course_id = ?`, courseID,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.CourseID == 0 {
		return nil, nil
	}
	return &p, nil
}
