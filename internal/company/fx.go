package company

import (
	"github.com/opencourse/aktiva/internal/company/repository"
	"github.com/opencourse/aktiva/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
