package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	activationdomain "github.com/opencourse/aktiva/internal/activation/domain"
	"github.com/opencourse/aktiva/internal/clock"
	companydomain "github.com/opencourse/aktiva/internal/company/domain"
	"github.com/opencourse/aktiva/internal/config"
	coursedomain "github.com/opencourse/aktiva/internal/course/domain"
	invoicedomain "github.com/opencourse/aktiva/internal/invoice/domain"
	"github.com/opencourse/aktiva/internal/observability/logger"
	obsmetrics "github.com/opencourse/aktiva/internal/observability/metrics"
	paymentdomain "github.com/opencourse/aktiva/internal/payment/domain"
	pricingdomain "github.com/opencourse/aktiva/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Billing     *config.BillingConfigHolder
	Repo        activationdomain.Repository
	CompanyRepo companydomain.Repository
	CourseRepo  coursedomain.Repository
	PricingSvc  pricingdomain.Service
	InvoiceSvc  invoicedomain.Service
	PaymentSvc  paymentdomain.Service
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	billing     *config.BillingConfigHolder
	repo        activationdomain.Repository
	companyRepo companydomain.Repository
	courseRepo  coursedomain.Repository
	pricingSvc  pricingdomain.Service
	invoiceSvc  invoicedomain.Service
	paymentSvc  paymentdomain.Service
	obsMetrics  *obsmetrics.Metrics
}

func NewService(p Params) activationdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("activation.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		billing:     p.Billing,
		repo:        p.Repo,
		companyRepo: p.CompanyRepo,
		courseRepo:  p.CourseRepo,
		pricingSvc:  p.PricingSvc,
		invoiceSvc:  p.InvoiceSvc,
		paymentSvc:  p.PaymentSvc,
		obsMetrics:  p.ObsMetrics,
	}
}

// Classify derives the renewal verdict from the most-recently-expiring
// activation for the pair. Any prior activation makes the next one a renewal;
// expiry is evaluated against the clock, not stored state.
func (s *Service) Classify(ctx context.Context, companyID, courseID snowflake.ID) (activationdomain.Classification, error) {
	previous, err := s.repo.FindLatest(ctx, s.db, companyID, courseID)
	if err != nil {
		return activationdomain.Classification{}, err
	}
	if previous == nil {
		return activationdomain.Classification{}, nil
	}
	return activationdomain.Classification{
		IsRenewal: true,
		Previous:  previous,
		IsExpired: previous.ExpiredAt(s.clock.Now()),
	}, nil
}

func (s *Service) Quote(ctx context.Context, companyID, courseID snowflake.ID, seatCount int) (*activationdomain.QuoteResponse, error) {
	if seatCount < 1 {
		return nil, activationdomain.ErrInvalidSeatCount
	}
	if _, _, err := s.lookupPair(ctx, companyID, courseID); err != nil {
		return nil, err
	}

	classification, err := s.Classify(ctx, companyID, courseID)
	if err != nil {
		return nil, err
	}
	pricing, err := s.pricingSvc.ResolveEffectivePrice(ctx, courseID, companyID)
	if err != nil {
		return nil, err
	}
	quote, err := activationdomain.ComputeQuote(classification.IsRenewal, seatCount, pricing, s.billing.Get().TaxRateBps)
	if err != nil {
		return nil, err
	}
	return &activationdomain.QuoteResponse{
		Quote:     quote,
		IsRenewal: classification.IsRenewal,
	}, nil
}

func (s *Service) Create(ctx context.Context, req activationdomain.CreateRequest) (*activationdomain.CreateResponse, error) {
	if req.SeatCount < 1 {
		return nil, activationdomain.ErrInvalidSeatCount
	}
	_, course, err := s.lookupPair(ctx, req.CompanyID, req.CourseID)
	if err != nil {
		return nil, err
	}

	classification, err := s.Classify(ctx, req.CompanyID, req.CourseID)
	if err != nil {
		return nil, err
	}
	if classification.Previous != nil &&
		classification.Previous.Status == activationdomain.StatusActive &&
		!classification.IsExpired {
		return nil, activationdomain.ErrAlreadyActive
	}

	pricing, err := s.pricingSvc.ResolveEffectivePrice(ctx, req.CourseID, req.CompanyID)
	if err != nil {
		return nil, err
	}
	billing := s.billing.Get()
	quote, err := activationdomain.ComputeQuote(classification.IsRenewal, req.SeatCount, pricing, billing.TaxRateBps)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	activation := activationdomain.CourseActivation{
		ID:           s.genID.Generate(),
		CompanyID:    req.CompanyID,
		CourseID:     req.CourseID,
		ActivatedAt:  now,
		ExpiresAt:    now.AddDate(0, 0, billing.ActivationTermDays),
		IsRenewal:    classification.IsRenewal,
		Status:       activationdomain.StatusPendingPayment,
		SeatCount:    req.SeatCount,
		SetupFeePaid: quote.SetupOrReactivationFee,
		SeatFeePaid:  quote.SeatTotal,
		TotalPaid:    quote.Total,
		Currency:     quote.Currency,
		CreatedBy:    req.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The activation, invoice and line items commit or roll back together, so
	// a crash mid-flow never leaves an activation without its invoice. A
	// failed attempt is retried from scratch.
	var invoice *invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &activation); err != nil {
			return err
		}
		invoice, err = s.invoiceSvc.CreateForActivation(ctx, tx, invoicedomain.CreateForActivationRequest{
			CompanyID:          activation.CompanyID,
			CourseActivationID: activation.ID,
			Subtotal:           quote.Subtotal,
			TaxRateBps:         quote.TaxRateBps,
			TaxAmount:          quote.TaxAmount,
			Total:              quote.Total,
			Currency:           quote.Currency,
			DueDate:            now.AddDate(0, 0, billing.InvoiceDueDays),
			CreatedBy:          req.CreatedBy,
			Lines:              buildLines(classification.IsRenewal, req.SeatCount, quote, course.Title),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.obsMetrics.RecordActivationCreated(ctx, activation.IsRenewal)
	logger.FromContext(ctx).Named("activation.service").Info("activation created",
		zap.Int64("activation_id", int64(activation.ID)),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Bool("is_renewal", activation.IsRenewal),
		zap.Int("seat_count", activation.SeatCount),
		zap.Int64("total", quote.Total),
	)

	// Checkout runs after commit. A gateway rejection leaves the activation
	// pending_payment and the payment failed; the caller can retry checkout.
	checkout, err := s.paymentSvc.CreateCheckout(ctx, paymentdomain.CheckoutInput{
		CompanyID:          activation.CompanyID,
		CourseActivationID: activation.ID,
		InvoiceID:          invoice.ID,
		Amount:             quote.Total,
		Currency:           quote.Currency,
		Description:        fmt.Sprintf("Course activation: %s", course.Title),
	})
	if err != nil {
		return nil, err
	}

	return &activationdomain.CreateResponse{
		Activation:  &activation,
		Invoice:     invoice,
		Quote:       quote,
		OrderID:     checkout.OrderID,
		CheckoutURL: checkout.RedirectURL,
	}, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*activationdomain.CourseActivation, error) {
	activation, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if activation == nil {
		return nil, activationdomain.ErrNotFound
	}
	return activation, nil
}

func (s *Service) List(ctx context.Context, companyID snowflake.ID) ([]activationdomain.CourseActivation, error) {
	return s.repo.ListByCompany(ctx, s.db, companyID)
}

func (s *Service) lookupPair(ctx context.Context, companyID, courseID snowflake.ID) (*companydomain.Company, *coursedomain.Course, error) {
	company, err := s.companyRepo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return nil, nil, err
	}
	if company == nil {
		return nil, nil, companydomain.ErrNotFound
	}
	course, err := s.courseRepo.FindByID(ctx, s.db, courseID)
	if err != nil {
		return nil, nil, err
	}
	if course == nil {
		return nil, nil, coursedomain.ErrNotFound
	}
	return company, course, nil
}

func buildLines(isRenewal bool, seatCount int, quote activationdomain.Quote, courseTitle string) []invoicedomain.LineInput {
	feeType := invoicedomain.ItemTypeSetupFee
	feeDescription := fmt.Sprintf("Setup fee: %s", courseTitle)
	if isRenewal {
		feeType = invoicedomain.ItemTypeReactivationFee
		feeDescription = fmt.Sprintf("Reactivation fee: %s", courseTitle)
	}

	lines := []invoicedomain.LineInput{{
		ItemType:    feeType,
		Description: feeDescription,
		Quantity:    1,
		UnitAmount:  quote.SetupOrReactivationFee,
		Amount:      quote.SetupOrReactivationFee,
	}}
	if seatCount > 0 {
		unit := quote.SeatTotal / int64(seatCount)
		lines = append(lines, invoicedomain.LineInput{
			ItemType:    invoicedomain.ItemTypeSeatFee,
			Description: fmt.Sprintf("Seats x%d: %s", seatCount, courseTitle),
			Quantity:    int64(seatCount),
			UnitAmount:  unit,
			Amount:      quote.SeatTotal,
		})
	}
	return lines
}
