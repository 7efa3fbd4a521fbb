package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	activationdomain "github.com/opencourse/aktiva/internal/activation/domain"
	activationrepo "github.com/opencourse/aktiva/internal/activation/repository"
	activationservice "github.com/opencourse/aktiva/internal/activation/service"
	"github.com/opencourse/aktiva/internal/clock"
	companydomain "github.com/opencourse/aktiva/internal/company/domain"
	companyrepo "github.com/opencourse/aktiva/internal/company/repository"
	companyservice "github.com/opencourse/aktiva/internal/company/service"
	"github.com/opencourse/aktiva/internal/config"
	coursedomain "github.com/opencourse/aktiva/internal/course/domain"
	courserepo "github.com/opencourse/aktiva/internal/course/repository"
	courseservice "github.com/opencourse/aktiva/internal/course/service"
	invoicedomain "github.com/opencourse/aktiva/internal/invoice/domain"
	invoicerepo "github.com/opencourse/aktiva/internal/invoice/repository"
	invoiceservice "github.com/opencourse/aktiva/internal/invoice/service"
	"github.com/opencourse/aktiva/internal/observability"
	paymentdomain "github.com/opencourse/aktiva/internal/payment/domain"
	"github.com/opencourse/aktiva/internal/payment/gateway"
	paymentrepo "github.com/opencourse/aktiva/internal/payment/repository"
	paymentservice "github.com/opencourse/aktiva/internal/payment/service"
	pricingdomain "github.com/opencourse/aktiva/internal/pricing/domain"
	pricingrepo "github.com/opencourse/aktiva/internal/pricing/repository"
	pricingservice "github.com/opencourse/aktiva/internal/pricing/service"
	"github.com/opencourse/aktiva/internal/providers/pdf"
	"github.com/opencourse/aktiva/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubGateway struct{}

func (stubGateway) CreateCheckout(ctx context.Context, req gateway.CheckoutRequest) (*gateway.CheckoutSession, error) {
	return &gateway.CheckoutSession{RedirectURL: "https://gateway.example/pay/" + req.OrderID}, nil
}

type testEnv struct {
	engine *gin.Engine
	db     *gorm.DB

	companyID snowflake.ID
	courseID  snowflake.ID
}

func setupServer(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	fakeClock := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	log := zap.NewNop()
	cfg := config.Config{AppName: "aktiva", PublicBaseURL: "https://aktiva.example"}

	companyRepository := companyrepo.Provide()
	courseRepository := courserepo.Provide()
	activationRepository := activationrepo.Provide()

	companySvc := companyservice.NewService(companyservice.Params{
		DB: db, Log: log, GenID: node, Clock: fakeClock, Repo: companyRepository,
	})
	courseSvc := courseservice.NewService(courseservice.Params{
		DB: db, Log: log, GenID: node, Clock: fakeClock, Repo: courseRepository,
	})
	pricingSvc := pricingservice.NewService(pricingservice.Params{
		DB: db, Log: log, GenID: node, Clock: fakeClock,
		Repo: pricingrepo.Provide(), CourseRepo: courseRepository,
	})
	invoiceSvc := invoiceservice.NewService(invoiceservice.Params{
		DB: db, Log: log, GenID: node, Clock: fakeClock, Repo: invoicerepo.Provide(),
	})
	paymentSvc := paymentservice.NewService(paymentservice.Params{
		Config: cfg, DB: db, Log: log, GenID: node, Clock: fakeClock,
		Repo: paymentrepo.Provide(), Gateway: stubGateway{},
		InvoiceSvc: invoiceSvc, ActivationRepo: activationRepository,
	})
	activationSvc := activationservice.NewService(activationservice.Params{
		DB: db, Log: log, GenID: node, Clock: fakeClock,
		Billing:     config.NewStaticBillingConfig(config.DefaultBillingConfig()),
		Repo:        activationRepository,
		CompanyRepo: companyRepository,
		CourseRepo:  courseRepository,
		PricingSvc:  pricingSvc,
		InvoiceSvc:  invoiceSvc,
		PaymentSvc:  paymentSvc,
	})

	engine := server.NewEngine(observability.Config{}, nil)
	server.NewServer(server.ServerParams{
		Gin:           engine,
		Cfg:           cfg,
		DB:            db,
		GenID:         node,
		CompanySvc:    companySvc,
		CourseSvc:     courseSvc,
		PricingSvc:    pricingSvc,
		ActivationSvc: activationSvc,
		InvoiceSvc:    invoiceSvc,
		PaymentSvc:    paymentSvc,
		PDFProvider:   pdf.New(),
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

	return &testEnv{engine: engine, db: db, companyID: company.ID, courseID: course.ID}
}

func (e *testEnv) postJSON(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createActivation(t *testing.T, seats int) map[string]any {
	t.Helper()
	body := fmt.Sprintf(`{"company_id":%d,"course_id":%d,"seat_count":%d}`, e.companyID, e.courseID, seats)
	w := e.postJSON(t, "/v1/activations", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestCreateActivationEndpoint(t *testing.T) {
	e := setupServer(t)

	data := e.createActivation(t, 20)

	invoice := data["invoice"].(map[string]any)
	assert.Equal(t, "INV-2025-0001", invoice["invoice_number"])
	quote := data["quote"].(map[string]any)
	assert.Equal(t, float64(70000), quote["total"])
	assert.NotEmpty(t, data["order_id"])
	assert.Contains(t, data["checkout_url"], "https://gateway.example/pay/")
}

func TestCreateActivationValidation(t *testing.T) {
	e := setupServer(t)

	w := e.postJSON(t, "/v1/activations",
		fmt.Sprintf(`{"company_id":%d,"course_id":%d,"seat_count":0}`, e.companyID, e.courseID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_seat_count")
}

func TestCreateActivationUnknownCourse(t *testing.T) {
	e := setupServer(t)

	w := e.postJSON(t, "/v1/activations",
		fmt.Sprintf(`{"company_id":%d,"course_id":123456,"seat_count":1}`, e.companyID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateActivationConflict(t *testing.T) {
	e := setupServer(t)

	data := e.createActivation(t, 5)
	orderID := data["order_id"].(string)

	w := e.postForm(t, "/v1/payments/webhook", url.Values{
		"ResponseCode":      {"1"},
		"TransactionNumber": {"TX-1"},
		"order_id":          {orderID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.postJSON(t, "/v1/activations",
		fmt.Sprintf(`{"company_id":%d,"course_id":%d,"seat_count":5}`, e.companyID, e.courseID))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "conflict")
}

func TestPaymentWebhookAlwaysAcknowledges(t *testing.T) {
	e := setupServer(t)

	// Unknown order ids and replays are internal conditions; the gateway
	// only retries on non-200, so both must be acknowledged.
	w := e.postForm(t, "/v1/payments/webhook", url.Values{
		"ResponseCode": {"1"},
		"order_id":     {"no-such-order"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	data := e.createActivation(t, 2)
	orderID := data["order_id"].(string)
	form := url.Values{
		"ResponseCode":      {"1"},
		"TransactionNumber": {"TX-9"},
		"order_id":          {orderID},
	}
	assert.Equal(t, http.StatusOK, e.postForm(t, "/v1/payments/webhook", form).Code)
	assert.Equal(t, http.StatusOK, e.postForm(t, "/v1/payments/webhook", form).Code)

	var activation activationdomain.CourseActivation
	require.NoError(t, e.db.First(&activation).Error)
	assert.Equal(t, activationdomain.StatusActive, activation.Status)
}

func TestGetActivationNotFound(t *testing.T) {
	e := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/activations/987654321", nil)
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
