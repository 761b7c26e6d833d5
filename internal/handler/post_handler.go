package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Micro_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc    *service.PostService
	follow *service.FollowService
}

type PostReq struct {
	Title    string `json:"title" binding:"required,max=250"`
	Subtitle string `json:"subtitle" binding:"max=250"`
	Body     string `json:"body" binding:"required"`
}

func NewPostHandler(svc *service.PostService, follow *service.FollowService) *PostHandler {
	return &PostHandler{svc: svc, follow: follow}
}

// Create 发帖接口
func (h *PostHandler) Create(c *gin.Context) {
	var req PostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	post, err := h.svc.Create(c.Request.Context(), userIDFromCtx(c), req.Title, req.Subtitle, req.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": post.ID})
}

func (h *PostHandler) Get(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}
	post, err := h.svc.Get(postID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Edit 只有作者能改
func (h *PostHandler) Edit(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}
	var req PostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	post, err := h.svc.Edit(c.Request.Context(), userIDFromCtx(c), postID, req.Title, req.Subtitle, req.Body)
	if err != nil {
		writePostErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Delete 删除帖子接口，重复删除报 404
func (h *PostHandler) Delete(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userIDFromCtx(c), postID); err != nil {
		writePostErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}

// Feed 首页：自己加关注的人的帖子
func (h *PostHandler) Feed(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, total, err := h.follow.Feed(c.Request.Context(), userIDFromCtx(c), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "total": total})
}

// Explore 全站最新
func (h *PostHandler) Explore(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, total, err := h.svc.Explore(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "total": total})
}

func writePostErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrNoPermission):
		c.JSON(http.StatusForbidden, gin.H{"msg": "please only edit posts you made"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	}
}
