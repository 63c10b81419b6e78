//go:build wireinject

package service

import (
	"Voz/dao"
	"Voz/dao/cache"
	"Voz/socket"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(VoteService), "*"),
	wire.Bind(new(IVoteService), new(*VoteService)),

	wire.Struct(new(NotificationService), "*"),
	wire.Bind(new(INotificationService), new(*NotificationService)),

	wire.Struct(new(ForumStore), "*"),
	wire.Bind(new(ITargetStore), new(*ForumStore)),
	wire.Bind(new(IAudienceStore), new(*ForumStore)),

	wire.Bind(new(IVoteStore), new(*dao.VoteDAO)),
	wire.Bind(new(INotificationStore), new(*dao.NotificationDAO)),
	wire.Bind(new(IUnreadCache), new(*cache.UnreadStorage)),
	wire.Bind(new(IPusher), new(*socket.Registry)),
)
