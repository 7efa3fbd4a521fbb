package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/opencourse/aktiva/internal/clock"
	coursedomain "github.com/opencourse/aktiva/internal/course/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  coursedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  coursedomain.Repository
}

func NewService(p Params) coursedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("course.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req coursedomain.CreateRequest) (*coursedomain.Response, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, coursedomain.ErrInvalidTitle
	}

	now := s.clock.Now()
	course := coursedomain.Course{
		ID:          s.genID.Generate(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Active:      true,
		Metadata:    req.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, &course); err != nil {
		return nil, err
	}
	return toResponse(&course), nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*coursedomain.Response, error) {
	course, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, coursedomain.ErrNotFound
	}
	return toResponse(course), nil
}

func (s *Service) List(ctx context.Context) ([]coursedomain.Response, error) {
	courses, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]coursedomain.Response, 0, len(courses))
	for i := range courses {
		out = append(out, *toResponse(&courses[i]))
	}
	return out, nil
}

func (s *Service) UpsertPricing(ctx context.Context, req coursedomain.UpsertPricingRequest) (*coursedomain.CoursePricing, error) {
	if req.SetupFee < 0 || req.ReactivationFee < 0 || req.SeatFee < 0 {
		return nil, coursedomain.ErrInvalidFee
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return nil, coursedomain.ErrInvalidCurrency
	}

	course, err := s.repo.FindByID(ctx, s.db, req.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, coursedomain.ErrNotFound
	}

	now := s.clock.Now()
	pricing := coursedomain.CoursePricing{
		CourseID:        req.CourseID,
		SetupFee:        req.SetupFee,
		ReactivationFee: req.ReactivationFee,
		SeatFee:         req.SeatFee,
		Currency:        currency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.UpsertPricing(ctx, s.db, &pricing); err != nil {
		return nil, err
	}
	return &pricing, nil
}

func (s *Service) GetPricing(ctx context.Context, courseID snowflake.ID) (*coursedomain.CoursePricing, error) {
	course, err := s.repo.FindByID(ctx, s.db, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, coursedomain.ErrNotFound
	}
	return s.repo.FindPricing(ctx, s.db, courseID)
}

func toResponse(c *coursedomain.Course) *coursedomain.Response {
	return &coursedomain.Response{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
