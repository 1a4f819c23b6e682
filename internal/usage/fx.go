package usage

import (
	"github.com/silkysystems/credit-engine/internal/usage/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("usage.repository",
	fx.Provide(repository.Provide),
)
