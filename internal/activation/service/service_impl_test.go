package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	activationdomain "github.com/opencourse/aktiva/internal/activation/domain"
	activationrepo "github.com/opencourse/aktiva/internal/activation/repository"
	activationservice "github.com/opencourse/aktiva/internal/activation/service"
	"github.com/opencourse/aktiva/internal/clock"
	companydomain "github.com/opencourse/aktiva/internal/company/domain"
	companyrepo "github.com/opencourse/aktiva/internal/company/repository"
	"github.com/opencourse/aktiva/internal/config"
	coursedomain "github.com/opencourse/aktiva/internal/course/domain"
	courserepo "github.com/opencourse/aktiva/internal/course/repository"
	invoicedomain "github.com/opencourse/aktiva/internal/invoice/domain"
	invoicerepo "github.com/opencourse/aktiva/internal/invoice/repository"
	invoiceservice "github.com/opencourse/aktiva/internal/invoice/service"
	paymentdomain "github.com/opencourse/aktiva/internal/payment/domain"
	"github.com/opencourse/aktiva/internal/payment/gateway"
	paymentrepo "github.com/opencourse/aktiva/internal/payment/repository"
	paymentservice "github.com/opencourse/aktiva/internal/payment/service"
	pricingdomain "github.com/opencourse/aktiva/internal/pricing/domain"
	pricingrepo "github.com/opencourse/aktiva/internal/pricing/repository"
	pricingservice "github.com/opencourse/aktiva/internal/pricing/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubGateway struct {
	err   error
	calls int
}

func (g *stubGateway) CreateCheckout(ctx context.Context, req gateway.CheckoutRequest) (*gateway.CheckoutSession, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &gateway.CheckoutSession{RedirectURL: "https://gateway.example/pay/" + req.OrderID}, nil
}

type fixture struct {
	db         *gorm.DB
	clock      *clock.FakeClock
	gateway    *stubGateway
	svc        activationdomain.Service
	paymentSvc paymentdomain.Service

	companyID snowflake.ID
	courseID  snowflake.ID
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&coursedomain.Course{},
		&coursedomain.CoursePricing{},
		&pricingdomain.CompanyPricingOverride{},
		&activationdomain.CourseActivation{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&invoicedomain.InvoiceSequence{},
		&paymentdomain.Payment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	billing := config.NewStaticBillingConfig(config.DefaultBillingConfig())
	log := zap.NewNop()

	courseRepository := courserepo.Provide()
	companyRepository := companyrepo.Provide()
	activationRepository := activationrepo.Provide()

	pricingSvc := pricingservice.NewService(pricingservice.Params{
		DB:         db,
		Log:        log,
		GenID:      node,
		Clock:      fakeClock,
		Repo:       pricingrepo.Provide(),
		CourseRepo: courseRepository,
	})
	invoiceSvc := invoiceservice.NewService(invoiceservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fakeClock,
		Repo:  invoicerepo.Provide(),
	})
	gw := &stubGateway{}
	paymentSvc := paymentservice.NewService(paymentservice.Params{
		Config:         config.Config{PublicBaseURL: "https://aktiva.example"},
		DB:             db,
		Log:            log,
		GenID:          node,
		Clock:          fakeClock,
		Repo:           paymentrepo.Provide(),
		Gateway:        gw,
		InvoiceSvc:     invoiceSvc,
		ActivationRepo: activationRepository,
	})
	svc := activationservice.NewService(activationservice.Params{
		DB:          db,
		Log:         log,
		GenID:       node,
		Clock:       fakeClock,
		Billing:     billing,
		Repo:        activationRepository,
		CompanyRepo: companyRepository,
		CourseRepo:  courseRepository,
		PricingSvc:  pricingSvc,
		InvoiceSvc:  invoiceSvc,
		PaymentSvc:  paymentSvc,
	})

	company := companydomain.Company{ID: node.Generate(), Name: "Acme Corp"}
	require.NoError(t, db.Create(&company).Error)
	course := coursedomain.Course{ID: node.Generate(), Title: "Workplace Safety", Active: true}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&coursedomain.CoursePricing{
		CourseID:        course.ID,
		SetupFee:        50000,
		ReactivationFee: 25000,
		SeatFee:         1000,
		Currency:        "EUR",
	}).Error)

	return &fixture{
		db:         db,
		clock:      fakeClock,
		gateway:    gw,
		svc:        svc,
		paymentSvc: paymentSvc,
		companyID:  company.ID,
		courseID:   course.ID,
	}
}

func (f *fixture) countRows(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Table(table).Count(&n).Error)
	return n
}

func TestCreate_NewActivation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, activationdomain.CreateRequest{
		CompanyID: f.companyID,
		CourseID:  f.courseID,
		SeatCount: 20,
		CreatedBy: "admin@acme.test",
	})
	require.NoError(t, err)

	assert.Equal(t, activationdomain.StatusPendingPayment, resp.Activation.Status)
	assert.False(t, resp.Activation.IsRenewal)
	assert.Equal(t, int64(70000), resp.Quote.Total)
	assert.Equal(t, resp.Activation.ActivatedAt.AddDate(0, 0, 365), resp.Activation.ExpiresAt)

	assert.Equal(t, "INV-2025-0001", resp.Invoice.InvoiceNumber)
	assert.Equal(t, invoicedomain.InvoiceStatusSent, resp.Invoice.Status)
	require.Len(t, resp.Invoice.Items, 2)
	assert.Equal(t, invoicedomain.ItemTypeSetupFee, resp.Invoice.Items[0].ItemType)
	assert.Equal(t, invoicedomain.ItemTypeSeatFee, resp.Invoice.Items[1].ItemType)

	var itemSum int64
	for _, item := range resp.Invoice.Items {
		itemSum += item.Amount
	}
	assert.Equal(t, resp.Invoice.Total, itemSum)

	assert.NotEmpty(t, resp.OrderID)
	assert.NotEqual(t, resp.Invoice.InvoiceNumber, resp.OrderID)
	assert.Equal(t, "https://gateway.example/pay/"+resp.OrderID, resp.CheckoutURL)
}

func TestCreate_RenewalAfterExpiry(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, activationdomain.CreateRequest{
		CompanyID: f.companyID, CourseID: f.courseID, SeatCount: 20,
	})
	require.NoError(t, err)

	// Pay the first activation, then let its term lapse.
	_, err = f.paymentSvc.HandleNotification(ctx, paymentdomain.GatewayNotification{
		ResponseCode: "1", TransactionNumber: "TX-1", OrderID: first.OrderID,
	})
	require.NoError(t, err)
	f.clock.Advance(366 * 24 * time.Hour)

	resp, err := f.svc.Create(ctx, activationdomain.CreateRequest{
		CompanyID: f.companyID, CourseID: f.courseID, SeatCount: 20,
	})
	require.NoError(t, err)

	assert.True(t, resp.Activation.IsRenewal)
	assert.Equal(t, int64(25000), resp.Quote.SetupOrReactivationFee)
	assert.Equal(t, int64(45000), resp.Quote.Total)
	require.Len(t, resp.Invoice.Items, 2)
	assert.Equal(t, invoicedomain.ItemTypeReactivationFee, resp.Invoice.Items[0].ItemType)
}

func TestCreate_RejectsWhileActiveUnexpired(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, activationdomain.CreateRequest{
		CompanyID: f.companyID, CourseID: f.courseID, SeatCount: 5,
	})
	require.NoError(t, err)
	_, err = f.paymentSvc.HandleNotification(ctx, paymentdomain.GatewayNotification{
		ResponseCode: "1", TransactionNumber: "TX-1", OrderID: first.OrderID,
	})
	require.NoError(t, err)

	activationsBefore := f.countRows(t, "course_activations")
	invoicesBefore := f.countRows(t, "invoices")

	_, err = f.svc.Create(ctx, activationdomain.CreateRequest{
		CompanyID: f.companyID, CourseID: f.courseID, SeatCount: 5,
	})
	assert.ErrorIs(t, err, activationdomain.ErrAlreadyActive)

	assert.Equal(t, activationsBefore, f.countRows(t, "course_activations"))
	assert.Equal(t, invoicesBefore, f.countRows(t, "invoices"))
}

func TestCreate_PendingPreviousIsStillRenewal(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	// An unpaid prior activation does not block a retry, but it does make the
	// next attempt a renewal.
	_, err := f.svc.Create(ctx, activationdomain.CreateRequest{
		CompanyID: f.companyID, CourseID: f.courseID, SeatCount: 5,
	})
	require.NoError(t, err)

	resp, err := f.svc.Create(ctx, activationdomain.CreateRequest{
		CompanyID: f.companyID, CourseID: f.courseID, SeatCount: 5,
	})
	require.NoError(t, err)
	assert.True(t, resp.Activation.IsRenewal)
	assert.Equal(t, int64(25000), resp.Quote.SetupOrReactivationFee)
}

func TestCreate_InvoiceNumbersAreSequentialWithinYear(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	secondCourse := coursedomain.Course{ID: node.Generate(), Title: "First Aid", Active: true}
	require.NoError(t, f.db.Create(&secondCourse).Error)
	require.NoError(t, f.db.Create(&coursedomain.CoursePricing{
		CourseID: secondCourse.ID, SetupFee: 10000, SeatFee: 500, Currency: "EUR",
	}).Error)

	first, err := f.svc.Create(ctx, activationdomain.CreateRequest{
		CompanyID: f.companyID, CourseID: f.courseID, SeatCount: 1,
	})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, activationdomain.CreateRequest{
		CompanyID: f.companyID, CourseID: secondCourse.ID, SeatCount: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-2025-0001", first.Invoice.InvoiceNumber)
	assert.Equal(t, "INV-2025-0002", second.Invoice.InvoiceNumber)
}

func TestCreate_UnknownCompanyOrCourse(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, activationdomain.CreateRequest{
		CompanyID: 999, CourseID: f.courseID, SeatCount: 1,
	})
	assert.ErrorIs(t, err, companydomain.ErrNotFound)

	_, err = f.svc.Create(ctx, activationdomain.CreateRequest{
		CompanyID: f.companyID, CourseID: 999, SeatCount: 1,
	})
	assert.ErrorIs(t, err, coursedomain.ErrNotFound)
}

func TestCreate_RejectsNonPositiveSeatCount(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.Create(context.Background(), activationdomain.CreateRequest{
		CompanyID: f.companyID, CourseID: f.courseID, SeatCount: 0,
	})
	assert.ErrorIs(t, err, activationdomain.ErrInvalidSeatCount)
}

func TestCreate_GatewayRejectionMarksPaymentFailed(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.gateway.err = errors.New("gateway down")

	_, err := f.svc.Create(ctx, activationdomain.CreateRequest{
		CompanyID: f.companyID, CourseID: f.courseID, SeatCount: 2,
	})
	require.Error(t, err)

	// The committed rows stay; only the payment is failed, and the
	// activation remains retryable.
	assert.Equal(t, int64(1), f.countRows(t, "course_activations"))
	assert.Equal(t, int64(1), f.countRows(t, "invoices"))

	var payment paymentdomain.Payment
	require.NoError(t, f.db.First(&payment).Error)
	assert.Equal(t, paymentdomain.PaymentStatusFailed, payment.Status)

	var activation activationdomain.CourseActivation
	require.NoError(t, f.db.First(&activation).Error)
	assert.Equal(t, activationdomain.StatusPendingPayment, activation.Status)
}

func TestQuote_DoesNotPersistAnything(t *testing.T) {
	f := setupFixture(t)

	resp, err := f.svc.Quote(context.Background(), f.companyID, f.courseID, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(70000), resp.Quote.Total)
	assert.False(t, resp.IsRenewal)
	assert.Equal(t, int64(0), f.countRows(t, "course_activations"))
	assert.Equal(t, int64(0), f.countRows(t, "invoices"))
}

func TestQuote_UsesCompanyOverrides(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	seatFee := int64(800)
	require.NoError(t, f.db.Create(&pricingdomain.CompanyPricingOverride{
		ID:              snowflake.ID(7001),
		CompanyID:       f.companyID,
		CourseID:        &f.courseID,
		SeatFeeOverride: &seatFee,
	}).Error)

	resp, err := f.svc.Quote(ctx, f.companyID, f.courseID, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(16000), resp.Quote.SeatTotal)
	assert.Equal(t, int64(66000), resp.Quote.Total)
}
