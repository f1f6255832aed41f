package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillery/backend/internal/middleware"
	"github.com/skillery/backend/internal/service"
)

// GroupHandler exposes the group and membership lifecycle over REST.
type GroupHandler struct {
	svc *service.GroupService
}

// NewGroupHandler creates a GroupHandler.
func NewGroupHandler(svc *service.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

type groupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Privacy     string `json:"privacy" binding:"required,oneof=public private"`
}

type reportRequest struct {
	Reason  string `json:"reason" binding:"required"`
	Details string `json:"details"`
}

// Create handles POST /api/groups.
func (h *GroupHandler) Create(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	group, err := h.svc.CreateGroup(c.Request.Context(), middleware.UserID(c), req.Name, req.Description, req.Privacy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// Get handles GET /api/groups/:id.
func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.svc.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// Update handles PUT /api/groups/:id. Owner only.
func (h *GroupHandler) Update(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	group, err := h.svc.UpdateGroup(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Name, req.Description, req.Privacy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// Delete handles DELETE /api/groups/:id. Owner only, cascades.
func (h *GroupHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteGroup(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Join handles POST /api/groups/:id/join (public groups).
func (h *GroupHandler) Join(c *gin.Context) {
	if err := h.svc.Join(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestJoin handles POST /api/groups/:id/requests (private groups).
func (h *GroupHandler) RequestJoin(c *gin.Context) {
	req, err := h.svc.RequestJoin(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// ListRequests handles GET /api/groups/:id/requests. Owner only.
func (h *GroupHandler) ListRequests(c *gin.Context) {
	requests, err := h.svc.ListJoinRequests(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// AcceptRequest handles POST /api/groups/:id/requests/:reqID/accept.
func (h *GroupHandler) AcceptRequest(c *gin.Context) {
	if err := h.svc.AcceptRequest(c.Request.Context(), c.Param("id"), c.Param("reqID"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RejectRequest handles POST /api/groups/:id/requests/:reqID/reject.
func (h *GroupHandler) RejectRequest(c *gin.Context) {
	if err := h.svc.RejectRequest(c.Request.Context(), c.Param("id"), c.Param("reqID"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Leave handles POST /api/groups/:id/leave.
func (h *GroupHandler) Leave(c *gin.Context) {
	if err := h.svc.Leave(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveMember handles DELETE /api/groups/:id/members/:uid. Owner only.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	if err := h.svc.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("uid"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMembers handles GET /api/groups/:id/members.
func (h *GroupHandler) ListMembers(c *gin.Context) {
	members, err := h.svc.ListMembers(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// CheckMembership handles GET /api/groups/:id/membership.
func (h *GroupHandler) CheckMembership(c *gin.Context) {
	status, err := h.svc.CheckMembership(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Report handles POST /api/groups/:id/report.
func (h *GroupHandler) Report(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.ReportGroup(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Reason, req.Details); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}
