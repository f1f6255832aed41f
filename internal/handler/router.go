package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skillery/backend/internal/auth"
	"github.com/skillery/backend/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          *AuthHandler
	Groups        *GroupHandler
	Posts         *PostHandler
	Notifications *NotificationHandler
	Uploads       *UploadHandler
	JWTManager    *auth.JWTManager
}

// NewRouter builds the gin engine with middleware and all routes mounted.
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logging(), middleware.Metrics())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(h.JWTManager))

	groups := authed.Group("/groups")
	{
		groups.POST("", h.Groups.Create)
		groups.GET("/:id", h.Groups.Get)
		groups.PUT("/:id", h.Groups.Update)
		groups.DELETE("/:id", h.Groups.Delete)

		groups.POST("/:id/join", h.Groups.Join)
		groups.POST("/:id/requests", h.Groups.RequestJoin)
		groups.GET("/:id/requests", h.Groups.ListRequests)
		groups.POST("/:id/requests/:reqID/accept", h.Groups.AcceptRequest)
		groups.POST("/:id/requests/:reqID/reject", h.Groups.RejectRequest)
		groups.POST("/:id/leave", h.Groups.Leave)
		groups.DELETE("/:id/members/:uid", h.Groups.RemoveMember)
		groups.GET("/:id/members", h.Groups.ListMembers)
		groups.GET("/:id/membership", h.Groups.CheckMembership)
		groups.POST("/:id/report", h.Groups.Report)

		groups.POST("/:id/posts", h.Posts.Create)
		groups.GET("/:id/posts", h.Posts.ListByGroup)
	}

	posts := authed.Group("/posts")
	{
		posts.GET("/:id", h.Posts.Get)
		posts.DELETE("/:id", h.Posts.Delete)
		posts.POST("/:id/like", h.Posts.Like)
		posts.POST("/:id/unlike", h.Posts.Unlike)
		posts.POST("/:id/dislike", h.Posts.Dislike)
		posts.POST("/:id/undislike", h.Posts.Undislike)
		posts.POST("/:id/comments", h.Posts.AddComment)
		posts.GET("/:id/comments", h.Posts.ListComments)
		posts.POST("/:id/report", h.Posts.Report)
	}

	authed.PUT("/comments/:id", h.Posts.EditComment)
	authed.DELETE("/comments/:id", h.Posts.DeleteComment)

	authed.GET("/notifications", h.Notifications.List)
	authed.POST("/notifications/:id/read", h.Notifications.MarkRead)

	authed.POST("/uploads", h.Uploads.Upload)
	authed.GET("/uploads/:key", h.Uploads.Download)

	return router
}
