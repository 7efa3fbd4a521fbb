package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/opencourse/aktiva/internal/clock"
	invoicedomain "github.com/opencourse/aktiva/internal/invoice/domain"
	obsmetrics "github.com/opencourse/aktiva/internal/observability/metrics"
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
	Repo       invoicedomain.Repository
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       invoicedomain.Repository
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) invoicedomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("invoice.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) CreateForActivation(ctx context.Context, tx *gorm.DB, req invoicedomain.CreateForActivationRequest) (*invoicedomain.Invoice, error) {
	if req.Total < 0 || req.Subtotal < 0 {
		return nil, invoicedomain.ErrInvalidAmount
	}
	var lineSum int64
	for _, line := range req.Lines {
		lineSum += line.Amount
	}
	if lineSum != req.Subtotal || req.Subtotal+req.TaxAmount != req.Total {
		return nil, invoicedomain.ErrLineMismatch
	}

	lines := req.Lines
	if req.TaxAmount > 0 {
		// A tax line keeps sum(items.amount) == invoice.total.
		lines = append(lines, invoicedomain.LineInput{
			ItemType:    invoicedomain.ItemTypeTax,
			Description: "Tax",
			Quantity:    1,
			UnitAmount:  req.TaxAmount,
			Amount:      req.TaxAmount,
		})
	}

	now := s.clock.Now()
	year := now.Year()
	seq, err := s.repo.NextNumber(ctx, tx, year)
	if err != nil {
		return nil, err
	}

	inv := invoicedomain.Invoice{
		ID:                 s.genID.Generate(),
		InvoiceNumber:      invoicedomain.FormatNumber(year, seq),
		CompanyID:          req.CompanyID,
		CourseActivationID: req.CourseActivationID,
		Subtotal:           req.Subtotal,
		TaxRateBps:         req.TaxRateBps,
		TaxAmount:          req.TaxAmount,
		Total:              req.Total,
		Currency:           req.Currency,
		Status:             invoicedomain.InvoiceStatusSent,
		DueDate:            req.DueDate,
		CreatedBy:          req.CreatedBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Insert(ctx, tx, &inv); err != nil {
		return nil, err
	}

	items := make([]invoicedomain.InvoiceItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, invoicedomain.InvoiceItem{
			ID:          s.genID.Generate(),
			InvoiceID:   inv.ID,
			ItemType:    line.ItemType,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitAmount:  line.UnitAmount,
			Amount:      line.Amount,
			CreatedAt:   now,
		})
	}
	if err := s.repo.InsertItems(ctx, tx, items); err != nil {
		return nil, err
	}
	inv.Items = items

	s.obsMetrics.RecordInvoiceIssued(ctx, inv.Currency)
	s.log.Info("invoice issued",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int64("total", inv.Total),
		zap.String("currency", inv.Currency),
	)

	return &inv, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*invoicedomain.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, invoicedomain.ErrNotFound
	}
	items, err := s.repo.FindItems(ctx, s.db, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (s *Service) List(ctx context.Context, companyID snowflake.ID) ([]invoicedomain.Invoice, error) {
	return s.repo.List(ctx, s.db, companyID)
}

func (s *Service) MarkPaid(ctx context.Context, tx *gorm.DB, id snowflake.ID) error {
	return s.repo.MarkPaid(ctx, tx, id)
}
