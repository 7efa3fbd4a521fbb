package pricing

import (
	"github.com/opencourse/aktiva/internal/pricing/repository"
	"github.com/opencourse/aktiva/internal/pricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
