package llm

import (
	"github.com/silkysystems/credit-engine/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("llm.provider",
	fx.Provide(func(cfg config.Config) Provider {
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	}),
)
