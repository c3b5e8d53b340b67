package collection

import (
	"go.uber.org/fx"

	"github.com/vallegroup/valle360/internal/collection/compose"
	"github.com/vallegroup/valle360/internal/collection/repository"
	"github.com/vallegroup/valle360/internal/collection/rules"
	"github.com/vallegroup/valle360/internal/collection/service"
)

// Module wires the escalation ladder, composer, action log and the
// batch orchestrator.
var Module = fx.Module("collection.service",
	fx.Provide(
		rules.Default,
		compose.New,
		repository.Provide,
		service.New,
	),
)
