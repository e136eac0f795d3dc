package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type roomRequest struct {
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
}

type capacityRequest struct {
	Capacity int `json:"capacity"`
}

// ListRooms handles the GET /api/admin/rooms request.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// CreateRoom handles the POST /api/admin/rooms request.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	room, err := h.store.CreateRoom(c.Request.Context(), req.Number, req.Capacity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// GetRoom handles the GET /api/admin/rooms/{id} request.
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	room, err := h.store.GetRoom(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// UpdateRoom handles the PUT /api/admin/rooms/{id} request.
func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	room, err := h.store.UpdateRoom(c.Request.Context(), id, req.Number, req.Capacity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// ResizeRoom handles the PUT /api/admin/rooms/{id}/capacity request.
func (h *Handler) ResizeRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req capacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	room, err := h.store.ResizeRoom(c.Request.Context(), id, req.Capacity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles the DELETE /api/admin/rooms/{id} request.
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteRoom(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
