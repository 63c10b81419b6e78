package handler

import (
	"Voz/config"
	"Voz/pkg/jwt"
	"Voz/pkg/response"
	"Voz/socket"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	Config   *config.Config
	Registry *socket.Registry
}

func (h *WSHandler) RegisterRouter(r gin.IRouter) {
	r.GET("/ws", h.HandleWS)
}

// HandleWS 建立通知推送连接
// 握手时校验一次 token,失败直接拒绝;连接期间不做二次校验,
// 吊销在下一次连接时生效
func (h *WSHandler) HandleWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		response.Abort(c, http.StatusUnauthorized, "缺少 token")
		return
	}

	claims, err := jwt.ParseToken([]byte(h.Config.Jwt.Secret), "access", token)
	if err != nil {
		response.Abort(c, http.StatusUnauthorized, err.Error())
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := socket.NewClient(claims.UserID, conn)
	h.Registry.Register(client)

	go client.WritePump()
	client.ReadLoop(func(cl *socket.Client) {
		h.Registry.Unregister(cl)
	})
}
