package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	activationdomain "github.com/opencourse/aktiva/internal/activation/domain"
	activationrepo "github.com/opencourse/aktiva/internal/activation/repository"
	"github.com/opencourse/aktiva/internal/clock"
	"github.com/opencourse/aktiva/internal/config"
	invoicedomain "github.com/opencourse/aktiva/internal/invoice/domain"
	invoicerepo "github.com/opencourse/aktiva/internal/invoice/repository"
	invoiceservice "github.com/opencourse/aktiva/internal/invoice/service"
	paymentdomain "github.com/opencourse/aktiva/internal/payment/domain"
	"github.com/opencourse/aktiva/internal/payment/gateway"
	paymentrepo "github.com/opencourse/aktiva/internal/payment/repository"
	paymentservice "github.com/opencourse/aktiva/internal/payment/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubGateway struct{}

func (stubGateway) CreateCheckout(ctx context.Context, req gateway.CheckoutRequest) (*gateway.CheckoutSession, error) {
	return &gateway.CheckoutSession{RedirectURL: "https://gateway.example/pay/" + req.OrderID}, nil
}

type fixture struct {
	db  *gorm.DB
	svc paymentdomain.Service

	activationID snowflake.ID
	invoiceID    snowflake.ID
	orderID      string
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&activationdomain.CourseActivation{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&invoicedomain.InvoiceSequence{},
		&paymentdomain.Payment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	invoiceSvc := invoiceservice.NewService(invoiceservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fakeClock,
		Repo:  invoicerepo.Provide(),
	})
	svc := paymentservice.NewService(paymentservice.Params{
		Config:         config.Config{PublicBaseURL: "https://aktiva.example"},
		DB:             db,
		Log:            log,
		GenID:          node,
		Clock:          fakeClock,
		Repo:           paymentrepo.Provide(),
		Gateway:        stubGateway{},
		InvoiceSvc:     invoiceSvc,
		ActivationRepo: activationrepo.Provide(),
	})

	now := fakeClock.Now()
	activation := activationdomain.CourseActivation{
		ID:          node.Generate(),
		CompanyID:   node.Generate(),
		CourseID:    node.Generate(),
		ActivatedAt: now,
		ExpiresAt:   now.AddDate(1, 0, 0),
		Status:      activationdomain.StatusPendingPayment,
		SeatCount:   5,
		TotalPaid:   55000,
		Currency:    "EUR",
	}
	require.NoError(t, db.Create(&activation).Error)

	invoice := invoicedomain.Invoice{
		ID:                 node.Generate(),
		InvoiceNumber:      "INV-2025-0001",
		CompanyID:          activation.CompanyID,
		CourseActivationID: activation.ID,
		Subtotal:           55000,
		Total:              55000,
		Currency:           "EUR",
		Status:             invoicedomain.InvoiceStatusSent,
		DueDate:            now.AddDate(0, 0, 14),
	}
	require.NoError(t, db.Create(&invoice).Error)

	orderID := uuid.NewString()
	require.NoError(t, db.Create(&paymentdomain.Payment{
		ID:                 node.Generate(),
		OrderID:            orderID,
		CompanyID:          activation.CompanyID,
		CourseActivationID: activation.ID,
		InvoiceID:          invoice.ID,
		Amount:             55000,
		Currency:           "EUR",
		Status:             paymentdomain.PaymentStatusPending,
	}).Error)

	return &fixture{
		db:           db,
		svc:          svc,
		activationID: activation.ID,
		invoiceID:    invoice.ID,
		orderID:      orderID,
	}
}

func (f *fixture) reload(t *testing.T) (paymentdomain.Payment, invoicedomain.Invoice, activationdomain.CourseActivation) {
	t.Helper()
	var payment paymentdomain.Payment
	require.NoError(t, f.db.Where("order_id = ?", f.orderID).First(&payment).Error)
	var invoice invoicedomain.Invoice
	require.NoError(t, f.db.First(&invoice, "id = ?", f.invoiceID).Error)
	var activation activationdomain.CourseActivation
	require.NoError(t, f.db.First(&activation, "id = ?", f.activationID).Error)
	return payment, invoice, activation
}

func TestHandleNotification_SuccessActivates(t *testing.T) {
	f := setupFixture(t)

	outcome, err := f.svc.HandleNotification(context.Background(), paymentdomain.GatewayNotification{
		ResponseCode:      "1",
		TransactionNumber: "TX-100",
		OrderID:           f.orderID,
	})
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.OutcomePaid, outcome)

	payment, invoice, activation := f.reload(t)
	assert.Equal(t, paymentdomain.PaymentStatusPaid, payment.Status)
	assert.Equal(t, "TX-100", payment.TransactionNumber)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, invoice.Status)
	require.NotNil(t, invoice.PaidAt)
	assert.Equal(t, activationdomain.StatusActive, activation.Status)
}

func TestHandleNotification_ReplayIsIgnored(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.svc.HandleNotification(ctx, paymentdomain.GatewayNotification{
		ResponseCode: "1", TransactionNumber: "TX-100", OrderID: f.orderID,
	})
	require.NoError(t, err)

	// A replay with a different transaction number must not touch any row.
	outcome, err := f.svc.HandleNotification(ctx, paymentdomain.GatewayNotification{
		ResponseCode: "1", TransactionNumber: "TX-999", OrderID: f.orderID,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrAlreadyProcessed)
	assert.Equal(t, paymentdomain.OutcomeReplay, outcome)

	payment, _, _ := f.reload(t)
	assert.Equal(t, "TX-100", payment.TransactionNumber)
}

func TestHandleNotification_FailureMarksPaymentOnly(t *testing.T) {
	f := setupFixture(t)

	outcome, err := f.svc.HandleNotification(context.Background(), paymentdomain.GatewayNotification{
		ResponseCode:        "05",
		ResponseDescription: "declined",
		OrderID:             f.orderID,
	})
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.OutcomeFailed, outcome)

	payment, invoice, activation := f.reload(t)
	assert.Equal(t, paymentdomain.PaymentStatusFailed, payment.Status)
	assert.Equal(t, invoicedomain.InvoiceStatusSent, invoice.Status)
	assert.Equal(t, activationdomain.StatusPendingPayment, activation.Status)
}

func TestHandleNotification_FailureIsTerminal(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.svc.HandleNotification(ctx, paymentdomain.GatewayNotification{
		ResponseCode: "05", OrderID: f.orderID,
	})
	require.NoError(t, err)

	// A failed payment is terminal; a later success for the same order is a
	// replay and must not activate anything.
	outcome, err := f.svc.HandleNotification(ctx, paymentdomain.GatewayNotification{
		ResponseCode: "1", TransactionNumber: "TX-100", OrderID: f.orderID,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrAlreadyProcessed)
	assert.Equal(t, paymentdomain.OutcomeReplay, outcome)

	_, _, activation := f.reload(t)
	assert.Equal(t, activationdomain.StatusPendingPayment, activation.Status)
}

func TestHandleNotification_UnknownOrder(t *testing.T) {
	f := setupFixture(t)

	outcome, err := f.svc.HandleNotification(context.Background(), paymentdomain.GatewayNotification{
		ResponseCode: "1", OrderID: "no-such-order",
	})
	assert.ErrorIs(t, err, paymentdomain.ErrNotFound)
	assert.Equal(t, paymentdomain.OutcomeUnknownOrder, outcome)
}

func TestCreateCheckout_ReturnsRedirect(t *testing.T) {
	f := setupFixture(t)

	result, err := f.svc.CreateCheckout(context.Background(), paymentdomain.CheckoutInput{
		CompanyID:          1,
		CourseActivationID: f.activationID,
		InvoiceID:          f.invoiceID,
		Amount:             55000,
		Currency:           "EUR",
		Description:        "Course activation: Workplace Safety",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.OrderID)
	assert.Equal(t, "https://gateway.example/pay/"+result.OrderID, result.RedirectURL)

	var payment paymentdomain.Payment
	require.NoError(t, f.db.Where("order_id = ?", result.OrderID).First(&payment).Error)
	assert.Equal(t, paymentdomain.PaymentStatusPending, payment.Status)
}
