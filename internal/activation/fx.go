package activation

import (
	"github.com/opencourse/aktiva/internal/activation/repository"
	"github.com/opencourse/aktiva/internal/activation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("activation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
