package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/opencourse/aktiva/internal/clock"
	coursedomain "github.com/opencourse/aktiva/internal/course/domain"
	pricingdomain "github.com/opencourse/aktiva/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       pricingdomain.Repository
	CourseRepo coursedomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       pricingdomain.Repository
	courseRepo coursedomain.Repository
}

func NewService(p Params) pricingdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("pricing.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		courseRepo: p.CourseRepo,
	}
}

// ResolveEffectivePrice fetches the three pricing tiers and merges them.
// Lookup failures are infrastructure errors; a fully absent hierarchy still
// resolves to zero fees and the default currency.
func (s *Service) ResolveEffectivePrice(ctx context.Context, courseID, companyID snowflake.ID) (pricingdomain.EffectivePricing, error) {
	def, err := s.courseRepo.FindPricing(ctx, s.db, courseID)
	if err != nil {
		return pricingdomain.EffectivePricing{}, err
	}
	companyWide, err := s.repo.FindCompanyWide(ctx, s.db, companyID)
	if err != nil {
		return pricingdomain.EffectivePricing{}, err
	}
	courseScoped, err := s.repo.FindCourseScoped(ctx, s.db, companyID, courseID)
	if err != nil {
		return pricingdomain.EffectivePricing{}, err
	}

	return pricingdomain.ResolveEffective(def, companyWide, courseScoped), nil
}

func (s *Service) PutOverride(ctx context.Context, req pricingdomain.PutOverrideRequest) (*pricingdomain.CompanyPricingOverride, error) {
	if req.CompanyID == 0 {
		return nil, pricingdomain.ErrInvalidCompany
	}
	if req.SetupFeeOverride == nil && req.ReactivationFeeOverride == nil && req.SeatFeeOverride == nil {
		return nil, pricingdomain.ErrEmptyOverride
	}
	for _, fee := range []*int64{req.SetupFeeOverride, req.ReactivationFeeOverride, req.SeatFeeOverride} {
		if fee != nil && *fee < 0 {
			return nil, pricingdomain.ErrInvalidFee
		}
	}

	// Replace an existing override of the same scope rather than stacking a
	// second row the resolver would never pick deterministically.
	existing, err := s.findSameScope(ctx, req.CompanyID, req.CourseID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	override := pricingdomain.CompanyPricingOverride{
		ID:                      s.genID.Generate(),
		CompanyID:               req.CompanyID,
		CourseID:                req.CourseID,
		SetupFeeOverride:        req.SetupFeeOverride,
		ReactivationFeeOverride: req.ReactivationFeeOverride,
		SeatFeeOverride:         req.SeatFeeOverride,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if existing != nil {
		override.ID = existing.ID
		override.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Upsert(ctx, s.db, &override); err != nil {
		return nil, err
	}
	return &override, nil
}

func (s *Service) DeleteOverride(ctx context.Context, id snowflake.ID) error {
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) ListOverrides(ctx context.Context, companyID snowflake.ID) ([]pricingdomain.CompanyPricingOverride, error) {
	if companyID == 0 {
		return nil, pricingdomain.ErrInvalidCompany
	}
	return s.repo.ListByCompany(ctx, s.db, companyID)
}

func (s *Service) findSameScope(ctx context.Context, companyID snowflake.ID, courseID *snowflake.ID) (*pricingdomain.CompanyPricingOverride, error) {
	if courseID == nil {
		return s.repo.FindCompanyWide(ctx, s.db, companyID)
	}
	return s.repo.FindCourseScoped(ctx, s.db, companyID, *courseID)
}
