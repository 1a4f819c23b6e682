package customer

import (
	"github.com/silkysystems/credit-engine/internal/customer/repository"
	"github.com/silkysystems/credit-engine/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
