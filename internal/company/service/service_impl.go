package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/opencourse/aktiva/internal/clock"
	companydomain "github.com/opencourse/aktiva/internal/company/domain"
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
	Repo  companydomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  companydomain.Repository
}

func NewService(p Params) companydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req companydomain.CreateRequest) (*companydomain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, companydomain.ErrInvalidName
	}

	now := s.clock.Now()
	company := companydomain.Company{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &company); err != nil {
		return nil, err
	}
	return toResponse(&company), nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*companydomain.Response, error) {
	company, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companydomain.ErrNotFound
	}
	return toResponse(company), nil
}

func (s *Service) List(ctx context.Context) ([]companydomain.Response, error) {
	companies, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]companydomain.Response, 0, len(companies))
	for i := range companies {
		out = append(out, *toResponse(&companies[i]))
	}
	return out, nil
}

func toResponse(c *companydomain.Company) *companydomain.Response {
	return &companydomain.Response{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
