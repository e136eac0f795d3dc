package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"dorm-housing-backend/internal/store"
)

type approveRequest struct {
	BedID int64  `json:"bed_id" binding:"required"`
	Note  string `json:"note"`
}

type rejectRequest struct {
	Note string `json:"note"`
}

// SubmitApplication handles the public POST /api/applications request.
func (h *Handler) SubmitApplication(c *gin.Context) {
	var req store.SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	app, err := h.store.Submit(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"public_code": app.PublicCode})
}

// GetApplicationStatus handles the public GET /api/applications/status/{code} request.
func (h *Handler) GetApplicationStatus(c *gin.Context) {
	view, err := h.store.LookupByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListApplications handles the GET /api/admin/applications request.
// The optional status query parameter filters by status; "all" disables the filter.
func (h *Handler) ListApplications(c *gin.Context) {
	apps, err := h.store.ListApplications(c.Request.Context(), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// GetApplication handles the GET /api/admin/applications/{id} request.
func (h *Handler) GetApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	app, err := h.store.GetApplication(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// ApproveApplication handles the POST /api/admin/applications/{id}/approve request.
func (h *Handler) ApproveApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.store.Approve(c.Request.Context(), id, req.BedID, req.Note)
	if err != nil {
		h.metrics.ObserveApproval(store.Kind(err))
		writeError(c, err)
		return
	}
	if result.Warning != "" {
		h.metrics.ObserveApproval("warning")
	} else {
		h.metrics.ObserveApproval("ok")
	}
	c.JSON(http.StatusOK, result)
}

// RejectApplication handles the POST /api/admin/applications/{id}/reject request.
// The body is optional.
func (h *Handler) RejectApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}
	app, err := h.store.Reject(c.Request.Context(), id, req.Note)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
