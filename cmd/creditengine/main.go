package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/silkysystems/credit-engine/internal/config"
	"github.com/silkysystems/credit-engine/internal/migration"
	"github.com/silkysystems/credit-engine/internal/server"
	"github.com/silkysystems/credit-engine/pkg/db"
	"github.com/silkysystems/credit-engine/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// HTTP surface and the domain modules it serves
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
