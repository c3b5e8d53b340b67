package invoice

import (
	"github.com/vallegroup/valle360/internal/invoice/repository"
	"github.com/vallegroup/valle360/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
