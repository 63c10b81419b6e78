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

type VoteHandler struct {
	Config      *config.Config
	VoteService service.IVoteService
}

func (vh *VoteHandler) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(vh.Config.Jwt.Secret))
	votes := r.Group("/v1/votes")
	votes.POST("", authorize, context.Wrap(vh.CastVote)) //投票(再投取消,异值翻转)
	votes.DELETE("/:target_id/:kind", authorize, context.Wrap(vh.RemoveVote))
	votes.GET("/:target_id/:kind/stats", context.Wrap(vh.GetVoteStats))
	votes.GET("/:target_id/:kind/me", authorize, context.Wrap(vh.GetUserVote))
}

// CastVote 投票
func (vh *VoteHandler) CastVote(c *gin.Context) error {
	var req types.CastVoteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	result, err := vh.VoteService.CastVote(c.Request.Context(), userID, req.TargetID, types.VoteKind(req.Kind), req.Value)
	if err != nil {
		return voteError(err)
	}

	response.Success(c, result)
	return nil
}

// RemoveVote 撤销投票
func (vh *VoteHandler) RemoveVote(c *gin.Context) error {
	targetID, kind, err := parseTargetParams(c)
	if err != nil {
		return err
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	if err := vh.VoteService.RemoveVote(c.Request.Context(), userID, targetID, kind); err != nil {
		return voteError(err)
	}

	response.Success(c, "撤销投票成功")
	return nil
}

// GetVoteStats 目标的投票统计
func (vh *VoteHandler) GetVoteStats(c *gin.Context) error {
	targetID, kind, err := parseTargetParams(c)
	if err != nil {
		return err
	}

	stats, err := vh.VoteService.GetVoteStats(c.Request.Context(), targetID, kind)
	if err != nil {
		return voteError(err)
	}

	response.Success(c, stats)
	return nil
}

// GetUserVote 当前用户对目标的投票状态
func (vh *VoteHandler) GetUserVote(c *gin.Context) error {
	targetID, kind, err := parseTargetParams(c)
	if err != nil {
		return err
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	vote, err := vh.VoteService.GetUserVote(c.Request.Context(), userID, targetID, kind)
	if err != nil {
		return voteError(err)
	}

	response.Success(c, vote)
	return nil
}

func parseTargetParams(c *gin.Context) (int64, types.VoteKind, error) {
	targetID, err := strconv.ParseInt(c.Param("target_id"), 10, 64)
	if err != nil || targetID == 0 {
		return 0, "", response.NewError(http.StatusBadRequest, "target_id参数错误")
	}
	return targetID, types.VoteKind(c.Param("kind")), nil
}

func voteError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidVoteValue),
		errors.Is(err, service.ErrInvalidVoteKind):
		return response.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTargetNotFound),
		errors.Is(err, service.ErrVoteNotFound):
		return response.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrVoteConflict):
		return response.NewError(http.StatusConflict, err.Error())
	}
	return err
}
