package legal

import (
	"go.uber.org/fx"

	"github.com/vallegroup/valle360/internal/legal/repository"
	"github.com/vallegroup/valle360/internal/legal/service"
)

// Module wires the legal case repository and escalation manager.
var Module = fx.Module("legal.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
