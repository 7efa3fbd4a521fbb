package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	activationdomain "github.com/opencourse/aktiva/internal/activation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() activationdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, activation *activationdomain.CourseActivation) error {
	return db.WithContext(ctx).Create(activation).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*activationdomain.CourseActivation, error) {
	var activation activationdomain.CourseActivation
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, course_id, activated_at, expires_at, is_renewal, status,
		 seat_count, setup_fee_paid, seat_fee_paid, total_paid, currency, created_by,
		 created_at, updated_at
		 FROM course_activations WHERE id = ?`, id,
	).Scan(&activation).Error
	if err != nil {
		return nil, err
	}
	if activation.ID == 0 {
		return nil, nil
	}
	return &activation, nil
}

func (r *repo) ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]activationdomain.CourseActivation, error) {
	var items []activationdomain.CourseActivation
	query := `SELECT id, company_id, course_id, activated_at, expires_at, is_renewal, status,
		 seat_count, setup_fee_paid, seat_fee_paid, total_paid, currency, created_by,
		 created_at, updated_at
		 FROM course_activations`
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

func (r *repo) FindLatest(ctx context.Context, db *gorm.DB, companyID, courseID snowflake.ID) (*activationdomain.CourseActivation, error) {
	var activation activationdomain.CourseActivation
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, course_id, activated_at, expires_at, is_renewal, status,
		 seat_count, setup_fee_paid, seat_fee_paid, total_paid, currency, created_by,
		 created_at, updated_at
		 FROM course_activations
		 WHERE company_id = ? AND course_id = ?
		 ORDER BY expires_at DESC
		 LIMIT 1`, companyID, courseID,
	).Scan(&activation).Error
	if err != nil {
		return nil, err
	}
	if activation.ID == 0 {
		return nil, nil
	}
	return &activation, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status activationdomain.ActivationStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE course_activations SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	).Error
}
