package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/vallegroup/valle360/internal/clock"
	"github.com/vallegroup/valle360/internal/config"
	"github.com/vallegroup/valle360/internal/logger"
	"github.com/vallegroup/valle360/internal/migration"
	"github.com/vallegroup/valle360/internal/runlock"
	"github.com/vallegroup/valle360/internal/server"
	"github.com/vallegroup/valle360/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		runlock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
