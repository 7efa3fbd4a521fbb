package payment

import (
	"github.com/opencourse/aktiva/internal/payment/gateway"
	"github.com/opencourse/aktiva/internal/payment/repository"
	"github.com/opencourse/aktiva/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(gateway.NewClient),
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
