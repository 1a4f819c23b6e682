package snapshot

import (
	"github.com/silkysystems/credit-engine/internal/snapshot/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("snapshot.repository",
	fx.Provide(repository.Provide),
)
