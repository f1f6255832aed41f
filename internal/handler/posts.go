package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillery/backend/internal/middleware"
	"github.com/skillery/backend/internal/service"
)

// PostHandler exposes posts, reactions, comments and post reporting.
type PostHandler struct {
	svc *service.PostService
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

type createPostRequest struct {
	Title   string   `json:"title" binding:"required"`
	Subject string   `json:"subject"`
	Content string   `json:"content" binding:"required"`
	Media   []string `json:"media"`
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Create handles POST /api/groups/:id/posts. Members only.
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), c.Param("id"), middleware.UserID(c),
		req.Title, req.Subject, req.Content, req.Media)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// ListByGroup handles GET /api/groups/:id/posts.
func (h *PostHandler) ListByGroup(c *gin.Context) {
	posts, err := h.svc.ListPosts(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Get handles GET /api/posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.svc.GetPost(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /api/posts/:id. Author or group owner.
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.svc.DeletePost(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Like handles POST /api/posts/:id/like.
func (h *PostHandler) Like(c *gin.Context) {
	h.reaction(c, h.svc.Like)
}

// Unlike handles POST /api/posts/:id/unlike.
func (h *PostHandler) Unlike(c *gin.Context) {
	h.reaction(c, h.svc.Unlike)
}

// Dislike handles POST /api/posts/:id/dislike.
func (h *PostHandler) Dislike(c *gin.Context) {
	h.reaction(c, h.svc.Dislike)
}

// Undislike handles POST /api/posts/:id/undislike.
func (h *PostHandler) Undislike(c *gin.Context) {
	h.reaction(c, h.svc.Undislike)
}

func (h *PostHandler) reaction(c *gin.Context, op func(ctx context.Context, postID, callerID string) error) {
	if err := op(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddComment handles POST /api/posts/:id/comments.
func (h *PostHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.svc.AddComment(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListComments handles GET /api/posts/:id/comments.
func (h *PostHandler) ListComments(c *gin.Context) {
	comments, err := h.svc.ListComments(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// EditComment handles PUT /api/comments/:id. Author only.
func (h *PostHandler) EditComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.svc.EditComment(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment handles DELETE /api/comments/:id. Comment author or post
// author.
func (h *PostHandler) DeleteComment(c *gin.Context) {
	if err := h.svc.DeleteComment(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Report handles POST /api/posts/:id/report.
func (h *PostHandler) Report(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.ReportPost(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Reason, req.Details); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}
