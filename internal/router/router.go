package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/admin"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/auth"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/category"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/config"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/group"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/like"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/middleware"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/post"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/user"
)

// New construit le moteur gin avec les middlewares globaux et toutes les routes
func New(cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(
		middleware.TraceMiddleware(),
		middleware.SecureHeaders(cfg.CookieSecure),
		middleware.CORSMiddleware(cfg.CORSOrigins),
		middleware.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
		middleware.AuthMiddleware(),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	loginRequired := middleware.LoginRequired()

	news := r.Group("/news")
	{
		news.GET("/", post.ListPosts)
		news.POST("/", post.CreateFromList)
		news.GET("/search/", post.SearchPosts)
		news.GET("/categories", category.ListCategories)
		news.POST("/categories", middleware.SuperuserRequired(), category.CreateCategory)

		news.GET("/add", middleware.PermissionRequired(group.AddPost), post.AddPostForm)
		news.POST("/add", middleware.PermissionRequired(group.AddPost), post.AddPost)

		news.GET("/:id", post.GetPost)
		news.GET("/:id/edit", middleware.PermissionRequired(group.ChangePost), post.EditPostForm)
		news.POST("/:id/edit", middleware.PermissionRequired(group.ChangePost), post.EditPost)
		news.GET("/:id/delete", loginRequired, post.DeletePostConfirm)
		news.POST("/:id/delete", loginRequired, post.DeletePost)
		news.POST("/:id/like", loginRequired, like.Like)
		news.POST("/:id/dislike", loginRequired, like.Dislike)
	}

	// Inscription & Connexion
	accounts := r.Group("/accounts")
	{
		accounts.POST("/signup", auth.Signup)
		accounts.POST("/login", auth.Login)
		accounts.POST("/logout", auth.Logout)
		accounts.GET("/me", loginRequired, user.GetMe)
	}

	r.GET("/upgrade/", loginRequired, auth.UpgradeMe)

	adminGroup := r.Group("/api/admin", middleware.SuperuserRequired())
	{
		adminGroup.GET("/stats", admin.GetDashboardStats)
		adminGroup.GET("/top-authors", admin.GetTopAuthors)
	}

	return r
}
