//go:build wireinject
// +build wireinject

package main

import (
	"Voz/config"
	"Voz/dao"
	"Voz/dao/cache"
	"Voz/handler"
	"Voz/pkg/client"
	"Voz/pkg/database"
	"Voz/pkg/server"
	"Voz/service"
	"Voz/socket"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) *server.AppProvider {
	wire.Build(

		client.NewRedisClient,
		database.NewDB,
		socket.NewRegistry,
		server.NewGinEngine,

		cache.ProviderSet,
		dao.ProviderSet,
		service.ProviderSet,

		wire.Struct(new(handler.VoteHandler), "*"),
		wire.Struct(new(handler.NotificationHandler), "*"),
		wire.Struct(new(handler.WSHandler), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),
	)
	return nil
}
