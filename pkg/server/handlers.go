package server

import (
	"Voz/handler"
)

type Handlers struct {
	Vote         *handler.VoteHandler
	Notification *handler.NotificationHandler
	WS           *handler.WSHandler
}
