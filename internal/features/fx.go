package features

import (
	"github.com/silkysystems/credit-engine/internal/features/service"
	"go.uber.org/fx"
)

var Module = fx.Module("features.service",
	fx.Provide(service.New),
)
