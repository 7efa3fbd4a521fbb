// Package seed bootstraps a demo catalog so a fresh install can exercise the
// full activation flow without manual setup.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/opencourse/aktiva/internal/company/domain"
	coursedomain "github.com/opencourse/aktiva/internal/course/domain"
	"gorm.io/gorm"
)

const (
	demoCompanyName = "Demo Company"
	demoCourseTitle = "Workplace Safety Essentials"
)

// EnsureDemoCatalog seeds one company and one priced course. It is a no-op
// when either table already has rows, so restarts never duplicate data.
func EnsureDemoCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var companies int64
		if err := tx.Model(&companydomain.Company{}).Count(&companies).Error; err != nil {
			return err
		}
		var courses int64
		if err := tx.Model(&coursedomain.Course{}).Count(&courses).Error; err != nil {
			return err
		}
		if companies > 0 || courses > 0 {
			return nil
		}

		now := time.Now().UTC()
		company := companydomain.Company{
			ID:        node.Generate(),
			Name:      demoCompanyName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}

		course := coursedomain.Course{
			ID:          node.Generate(),
			Title:       demoCourseTitle,
			Description: "Introductory demo course",
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&course).Error; err != nil {
			return err
		}

		return tx.Create(&coursedomain.CoursePricing{
			CourseID:        course.ID,
			SetupFee:        50000,
			ReactivationFee: 25000,
			SeatFee:         1000,
			Currency:        "USD",
			CreatedAt:       now,
			UpdatedAt:       now,
		}).Error
	})
}
