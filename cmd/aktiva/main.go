package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/opencourse/aktiva/internal/clock"
	"github.com/opencourse/aktiva/internal/config"
	"github.com/opencourse/aktiva/internal/migration"
	"github.com/opencourse/aktiva/internal/observability"
	"github.com/opencourse/aktiva/internal/server"
	"github.com/opencourse/aktiva/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
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
