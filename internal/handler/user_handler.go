package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Micro_Blog/internal/pkg"
	"Micro_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc    *service.UserService
	posts  *service.PostService
	follow *service.FollowService
}

// RegisterReq 注册请求体
type RegisterReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// ResetRequestReq 找回密码请求体
type ResetRequestReq struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetReq struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type EditProfileReq struct {
	Username string `json:"username" binding:"required"`
	AboutMe  string `json:"about_me" binding:"max=140"`
}

func NewUserHandler(svc *service.UserService, posts *service.PostService, follow *service.FollowService) *UserHandler {
	return &UserHandler{svc: svc, posts: posts, follow: follow}
}

// Register 注册接口
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.Register(req.Username, req.Email, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Login 登录接口
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	token, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"AccessToken": token.AccessToken, "RefreshToken": token.RefreshToken})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(userIDFromCtx(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// TokenRefresh 利用refresh来更新access
func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	token, err := h.svc.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"AccessToken": token.AccessToken, "RefreshToken": token.RefreshToken})
}

// ResetPasswordRequest 无论邮箱是否注册都回同一句话
func (h *UserHandler) ResetPasswordRequest(c *gin.Context) {
	var req ResetRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.RequestPasswordReset(req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "send failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "check your email for the instructions to reset your password"})
}

// ResetPassword token 有问题统一提示链接失效
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	if err := h.svc.ResetPassword(req.Token, req.NewPassword); err != nil {
		if errors.Is(err, pkg.ErrResetInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "link expired, request a new one"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "reset password successfully"})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.ChangePassword(userIDFromCtx(c), req.OldPassword, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "change password successfully"})
}

// EditProfile 改用户名和简介
func (h *UserHandler) EditProfile(c *gin.Context) {
	var req EditProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.EditProfile(userIDFromCtx(c), req.Username, req.AboutMe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Profile 个人主页：资料、头像、关注数和帖子分页
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.svc.GetByUsername(c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "user not found"})
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	posts, total, err := h.posts.ListByAuthor(user.ID, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}

	following, followers, err := h.follow.Counts(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "counts failed"})
		return
	}

	isFollowing := false
	if uid := userIDFromCtx(c); uid != 0 && uid != user.ID {
		isFollowing, _ = h.follow.IsFollowing(c.Request.Context(), uid, user.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"avatar":       user.Avatar(128),
		"following":    following,
		"followers":    followers,
		"is_following": isFollowing,
		"posts":        posts,
		"total":        total,
	})
}
