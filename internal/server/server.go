package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/opencourse/aktiva/internal/activation"
	activationdomain "github.com/opencourse/aktiva/internal/activation/domain"
	"github.com/opencourse/aktiva/internal/company"
	companydomain "github.com/opencourse/aktiva/internal/company/domain"
	"github.com/opencourse/aktiva/internal/config"
	"github.com/opencourse/aktiva/internal/course"
	coursedomain "github.com/opencourse/aktiva/internal/course/domain"
	"github.com/opencourse/aktiva/internal/invoice"
	invoicedomain "github.com/opencourse/aktiva/internal/invoice/domain"
	"github.com/opencourse/aktiva/internal/observability"
	obsmiddleware "github.com/opencourse/aktiva/internal/observability/logger"
	obsmetrics "github.com/opencourse/aktiva/internal/observability/metrics"
	obstracing "github.com/opencourse/aktiva/internal/observability/tracing"
	"github.com/opencourse/aktiva/internal/payment"
	paymentdomain "github.com/opencourse/aktiva/internal/payment/domain"
	"github.com/opencourse/aktiva/internal/pricing"
	pricingdomain "github.com/opencourse/aktiva/internal/pricing/domain"
	"github.com/opencourse/aktiva/internal/providers/pdf"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	company.Module,
	course.Module,
	pricing.Module,
	activation.Module,
	invoice.Module,
	payment.Module,
	pdf.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	companySvc    companydomain.Service
	courseSvc     coursedomain.Service
	pricingSvc    pricingdomain.Service
	activationSvc activationdomain.Service
	invoiceSvc    invoicedomain.Service
	paymentSvc    paymentdomain.Service
	pdfProvider   pdf.Provider
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	CompanySvc    companydomain.Service
	CourseSvc     coursedomain.Service
	PricingSvc    pricingdomain.Service
	ActivationSvc activationdomain.Service
	InvoiceSvc    invoicedomain.Service
	PaymentSvc    paymentdomain.Service
	PDFProvider   pdf.Provider
	ObsMetrics    *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		companySvc:    p.CompanySvc,
		courseSvc:     p.CourseSvc,
		pricingSvc:    p.PricingSvc,
		activationSvc: p.ActivationSvc,
		invoiceSvc:    p.InvoiceSvc,
		paymentSvc:    p.PaymentSvc,
		pdfProvider:   p.PDFProvider,
		obsMetrics:    p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Companies --------
	v1.GET("/companies", s.ListCompanies)
	v1.POST("/companies", s.CreateCompany)
	v1.GET("/companies/:id", s.GetCompanyByID)

	// -------- Courses & catalog pricing --------
	v1.GET("/courses", s.ListCourses)
	v1.POST("/courses", s.CreateCourse)
	v1.GET("/courses/:id", s.GetCourseByID)
	v1.GET("/courses/:id/pricing", s.GetCoursePricing)
	v1.PUT("/courses/:id/pricing", s.UpsertCoursePricing)

	// -------- Company pricing overrides --------
	v1.GET("/companies/:id/pricing-overrides", s.ListPricingOverrides)
	v1.PUT("/companies/:id/pricing-overrides", s.PutPricingOverride)
	v1.DELETE("/pricing-overrides/:id", s.DeletePricingOverride)
	v1.GET("/companies/:id/effective-pricing/:courseId", s.GetEffectivePricing)

	// -------- Activations --------
	v1.POST("/activations", s.CreateActivation)
	v1.POST("/activations/quote", s.QuoteActivation)
	v1.GET("/activations", s.ListActivations)
	v1.GET("/activations/:id", s.GetActivationByID)

	// -------- Invoices --------
	v1.GET("/invoices", s.ListInvoices)
	v1.GET("/invoices/:id", s.GetInvoiceByID)
	v1.GET("/invoices/:id/pdf", s.RenderInvoicePDF)

	// -------- Payments --------
	v1.POST("/payments/webhook", s.HandlePaymentWebhook)
	v1.GET("/payments/return", s.PaymentReturn)
	v1.GET("/payments/cancel", s.PaymentCancel)
}
