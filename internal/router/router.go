package router

import (
	"Micro_Blog/internal/handler"
	"Micro_Blog/internal/middleware"
	"Micro_Blog/internal/repository/redis"
	"Micro_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Sessions *redis.SessionRepository
	Users    *service.UserService
	Posts    *service.PostService
	Follows  *service.FollowService
	Search   *service.SearchService
	PerPage  int
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler(d.Users, d.Posts, d.Follows)
	post := handler.NewPostHandler(d.Posts, d.Follows)
	follow := handler.NewFollowHandler(d.Follows)
	search := handler.NewSearchHandler(d.Search, d.PerPage)

	auth := middleware.AuthMiddleware(d.Sessions, d.Users)

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset-request", user.ResetPasswordRequest)
		userGroup.POST("/reset", user.ResetPassword)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(auth)
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
		authGroup.PUT("/profile", user.EditProfile)
		authGroup.GET("/profile/:username", user.Profile)
	}

	// 帖子相关接口
	postGroup := r.Group("/api/post")
	postGroup.Use(auth)
	{
		postGroup.POST("/create", post.Create)
		postGroup.GET("/feed", post.Feed)
		postGroup.GET("/explore", post.Explore)
		postGroup.GET("/:id", post.Get)
		postGroup.PUT("/:id", post.Edit)
		postGroup.DELETE("/:id", post.Delete)
	}

	// 用户关注相关接口
	followGroup := r.Group("/api/follow")
	followGroup.Use(auth)
	{
		followGroup.POST("/:username", follow.Follow)
		followGroup.DELETE("/:username", follow.Unfollow)
		followGroup.GET("/followings", follow.ListFollowings)
		followGroup.GET("/followers", follow.ListFollowers)
		followGroup.GET("/relation", follow.Relation)
	}

	// 搜索接口
	searchGroup := r.Group("/api/search")
	searchGroup.Use(auth)
	{
		searchGroup.GET("", search.Search)
		searchGroup.POST("/reindex", search.Reindex)
	}

	return r
}
