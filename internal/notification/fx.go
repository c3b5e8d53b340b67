package notification

import (
	"go.uber.org/fx"

	"github.com/vallegroup/valle360/internal/notification/repository"
	"github.com/vallegroup/valle360/internal/notification/service"
)

// Module wires the notification repository and service.
var Module = fx.Module("notification.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
