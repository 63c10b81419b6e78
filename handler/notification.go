package handler

import (
	"Voz/config"
	"Voz/middleware"
	"Voz/pkg/context"
	"Voz/pkg/response"
	"Voz/service"
	"Voz/types"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	Config              *config.Config
	NotificationService service.INotificationService
}

func (nh *NotificationHandler) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(nh.Config.Jwt.Secret))
	notifications := r.Group("/v1/notifications", authorize)
	notifications.GET("", context.Wrap(nh.List))
	notifications.GET("/unread-count", context.Wrap(nh.UnreadCount))
	notifications.POST("/:id/read", context.Wrap(nh.MarkRead))
	notifications.POST("/read-all", context.Wrap(nh.MarkAllRead))
	notifications.DELETE("/:id", context.Wrap(nh.Delete))
}

// List 通知列表(分页,可按已读状态过滤)
func (nh *NotificationHandler) List(c *gin.Context) error {
	var req types.ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	result, err := nh.NotificationService.List(c.Request.Context(), userID, &req)
	if err != nil {
		return notificationError(err)
	}

	response.Success(c, result)
	return nil
}

// UnreadCount 未读通知数
func (nh *NotificationHandler) UnreadCount(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	count, err := nh.NotificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		return notificationError(err)
	}

	response.Success(c, &types.UnreadCountResponse{Count: count})
	return nil
}

// MarkRead 标记单条已读
func (nh *NotificationHandler) MarkRead(c *gin.Context) error {
	id, err := parseNotificationID(c)
	if err != nil {
		return err
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	if err := nh.NotificationService.MarkRead(c.Request.Context(), userID, id); err != nil {
		return notificationError(err)
	}

	response.Success(c, "标记已读成功")
	return nil
}

// MarkAllRead 全部标记已读
func (nh *NotificationHandler) MarkAllRead(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	if err := nh.NotificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		return notificationError(err)
	}

	response.Success(c, "全部已读成功")
	return nil
}

// Delete 删除通知
func (nh *NotificationHandler) Delete(c *gin.Context) error {
	id, err := parseNotificationID(c)
	if err != nil {
		return err
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	if err := nh.NotificationService.Delete(c.Request.Context(), userID, id); err != nil {
		return notificationError(err)
	}

	response.Success(c, "删除通知成功")
	return nil
}

func parseNotificationID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, response.NewError(http.StatusBadRequest, "id参数错误")
	}
	return id, nil
}

func notificationError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		return response.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return response.NewError(http.StatusForbidden, err.Error())
	}
	return err
}
