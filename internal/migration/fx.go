package migration

import (
	activationdomain "github.com/opencourse/aktiva/internal/activation/domain"
	companydomain "github.com/opencourse/aktiva/internal/company/domain"
	"github.com/opencourse/aktiva/internal/config"
	coursedomain "github.com/opencourse/aktiva/internal/course/domain"
	invoicedomain "github.com/opencourse/aktiva/internal/invoice/domain"
	paymentdomain "github.com/opencourse/aktiva/internal/payment/domain"
	pricingdomain "github.com/opencourse/aktiva/internal/pricing/domain"
	"github.com/opencourse/aktiva/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Non-postgres targets (local sqlite, mysql) get the schema from
			// the models directly.
			if err := conn.AutoMigrate(
				&companydomain.Company{},
				&coursedomain.Course{},
				&coursedomain.CoursePricing{},
				&pricingdomain.CompanyPricingOverride{},
				&activationdomain.CourseActivation{},
				&invoicedomain.Invoice{},
				&invoicedomain.InvoiceItem{},
				&invoicedomain.InvoiceSequence{},
				&paymentdomain.Payment{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoCatalog(conn)
		}
		return nil
	}),
)
