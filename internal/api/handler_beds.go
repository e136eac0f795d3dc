package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListFreeBeds handles the GET /api/admin/beds/free request.
func (h *Handler) ListFreeBeds(c *gin.Context) {
	beds, err := h.store.ListFreeBeds(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, beds)
}

// ListOccupiedBeds handles the GET /api/admin/beds/occupied request.
func (h *Handler) ListOccupiedBeds(c *gin.Context) {
	beds, err := h.store.ListOccupiedBeds(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, beds)
}

// FreeBed handles the POST /api/admin/beds/{id}/free request.
func (h *Handler) FreeBed(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	bed, err := h.store.FreeBed(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bed)
}
