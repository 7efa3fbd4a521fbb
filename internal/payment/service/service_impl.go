package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	activationdomain "github.com/opencourse/aktiva/internal/activation/domain"
	"github.com/opencourse/aktiva/internal/clock"
	"github.com/opencourse/aktiva/internal/config"
	invoicedomain "github.com/opencourse/aktiva/internal/invoice/domain"
	"github.com/opencourse/aktiva/internal/observability/logger"
	obsmetrics "github.com/opencourse/aktiva/internal/observability/metrics"
	paymentdomain "github.com/opencourse/aktiva/internal/payment/domain"
	"github.com/opencourse/aktiva/internal/payment/gateway"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config         config.Config
	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Clock          clock.Clock
	Repo           paymentdomain.Repository
	Gateway        gateway.Client
	InvoiceSvc     invoicedomain.Service
	ActivationRepo activationdomain.Repository
	ObsMetrics     *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	cfg            config.Config
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	clock          clock.Clock
	repo           paymentdomain.Repository
	gateway        gateway.Client
	invoiceSvc     invoicedomain.Service
	activationRepo activationdomain.Repository
	obsMetrics     *obsmetrics.Metrics
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		cfg:            p.Config,
		db:             p.DB,
		log:            p.Log.Named("payment.service"),
		genID:          p.GenID,
		clock:          p.Clock,
		repo:           p.Repo,
		gateway:        p.Gateway,
		invoiceSvc:     p.InvoiceSvc,
		activationRepo: p.ActivationRepo,
		obsMetrics:     p.ObsMetrics,
	}
}

func (s *Service) CreateCheckout(ctx context.Context, req paymentdomain.CheckoutInput) (*paymentdomain.CheckoutResult, error) {
	now := s.clock.Now()
	payment := paymentdomain.Payment{
		ID:                 s.genID.Generate(),
		OrderID:            uuid.NewString(),
		CompanyID:          req.CompanyID,
		CourseActivationID: req.CourseActivationID,
		InvoiceID:          req.InvoiceID,
		Amount:             req.Amount,
		Currency:           req.Currency,
		Status:             paymentdomain.PaymentStatusPending,
		Description:        req.Description,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Insert(ctx, s.db, &payment); err != nil {
		return nil, err
	}

	base := s.cfg.PublicBaseURL
	session, err := s.gateway.CreateCheckout(ctx, gateway.CheckoutRequest{
		OrderID:     payment.OrderID,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Description: payment.Description,
		PostBackURL: base + "/v1/payments/webhook",
		ReturnURL:   fmt.Sprintf("%s/v1/payments/return?order_id=%s", base, payment.OrderID),
		CancelURL:   fmt.Sprintf("%s/v1/payments/cancel?order_id=%s", base, payment.OrderID),
	})
	if err != nil {
		// The activation stays pending_payment; the user can retry checkout.
		if updateErr := s.repo.UpdateStatus(ctx, s.db, payment.ID, paymentdomain.PaymentStatusFailed, ""); updateErr != nil {
			s.log.Error("mark payment failed", zap.String("order_id", payment.OrderID), zap.Error(updateErr))
		}
		return nil, err
	}

	return &paymentdomain.CheckoutResult{
		OrderID:     payment.OrderID,
		RedirectURL: session.RedirectURL,
	}, nil
}

// HandleNotification is the idempotent postback path. The payment row is the
// idempotency anchor: once it leaves pending, replays short-circuit before
// any write.
func (s *Service) HandleNotification(ctx context.Context, n paymentdomain.GatewayNotification) (string, error) {
	log := logger.FromContext(ctx).Named("payment.webhook").With(zap.String("order_id", n.OrderID))

	payment, err := s.repo.FindByOrderID(ctx, s.db, n.OrderID)
	if err != nil {
		return "", err
	}
	if payment == nil {
		log.Warn("notification for unknown order")
		s.obsMetrics.RecordPaymentWebhook(ctx, paymentdomain.OutcomeUnknownOrder)
		return paymentdomain.OutcomeUnknownOrder, paymentdomain.ErrNotFound
	}
	if payment.Status != paymentdomain.PaymentStatusPending {
		log.Info("notification replay ignored", zap.String("status", string(payment.Status)))
		s.obsMetrics.RecordPaymentWebhook(ctx, paymentdomain.OutcomeReplay)
		return paymentdomain.OutcomeReplay, paymentdomain.ErrAlreadyProcessed
	}

	if !n.Succeeded() {
		if err := s.repo.UpdateStatus(ctx, s.db, payment.ID, paymentdomain.PaymentStatusFailed, n.TransactionNumber); err != nil {
			return "", err
		}
		log.Info("payment failed",
			zap.String("response_code", n.ResponseCode),
			zap.String("response_description", n.ResponseDescription),
		)
		s.obsMetrics.RecordPaymentWebhook(ctx, paymentdomain.OutcomeFailed)
		return paymentdomain.OutcomeFailed, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatus(ctx, tx, payment.ID, paymentdomain.PaymentStatusPaid, n.TransactionNumber); err != nil {
			return err
		}
		if err := s.invoiceSvc.MarkPaid(ctx, tx, payment.InvoiceID); err != nil {
			return err
		}
		return s.activationRepo.UpdateStatus(ctx, tx, payment.CourseActivationID, activationdomain.StatusActive)
	})
	if err != nil {
		return "", err
	}

	log.Info("payment confirmed", zap.String("transaction_number", n.TransactionNumber))
	s.obsMetrics.RecordPaymentWebhook(ctx, paymentdomain.OutcomePaid)
	return paymentdomain.OutcomePaid, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*paymentdomain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, paymentdomain.ErrNotFound
	}
	return payment, nil
}
