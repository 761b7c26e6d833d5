package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Micro_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	svc *service.FollowService
}

func NewFollowHandler(svc *service.FollowService) *FollowHandler {
	return &FollowHandler{svc: svc}
}

// Follow 关注接口，重复关注静默幂等
func (h *FollowHandler) Follow(c *gin.Context) {
	changed, err := h.svc.FollowByName(c.Request.Context(), userIDFromCtx(c), c.Param("username"))
	if err != nil {
		writeFollowErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// Unfollow 取关接口，边不存在也是成功
func (h *FollowHandler) Unfollow(c *gin.Context) {
	changed, err := h.svc.UnfollowByName(c.Request.Context(), userIDFromCtx(c), c.Param("username"))
	if err != nil {
		writeFollowErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// ListFollowings 获取关注列表
func (h *FollowHandler) ListFollowings(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, next, err := h.svc.ListFollowings(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}

// ListFollowers 获取粉丝列表
func (h *FollowHandler) ListFollowers(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, next, err := h.svc.ListFollowers(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}

// Relation 获取用户间关系
func (h *FollowHandler) Relation(c *gin.Context) {
	from, _ := strconv.ParseUint(c.Query("from"), 10, 64)
	to, _ := strconv.ParseUint(c.Query("to"), 10, 64)
	ok, err := h.svc.IsFollowing(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": ok})
}

func writeFollowErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "follow failed"})
	}
}

func userIDFromCtx(c *gin.Context) uint64 {
	if v, ok := c.Get("user_id"); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}
