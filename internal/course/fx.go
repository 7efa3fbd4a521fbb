package course

import (
	"github.com/opencourse/aktiva/internal/course/repository"
	"github.com/opencourse/aktiva/internal/course/service"
	"go.uber.org/fx"
)

var Module = fx.Module("course.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
