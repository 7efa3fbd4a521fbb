package invoice

import (
	"github.com/opencourse/aktiva/internal/invoice/repository"
	"github.com/opencourse/aktiva/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
