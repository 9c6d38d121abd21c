package class

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListClasses godoc
// @Summary      List upcoming classes
// @Description  Active classes from today onward with seat availability.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   ClassWithAvailability
// @Failure      500  {object}  gin.H
// @Router       /classes [get]
func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.service.ListUpcoming(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, classes)
}

// CreateClass godoc
// @Summary      Create class
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateClassRequest  true  "Class data"
// @Success      201      {object}  ClassSession
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/classes [post]
func (h *Handler) CreateClass(c *gin.Context) {
	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrClassInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateClass godoc
// @Summary      Update class
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        classID  path      int                 true  "Class ID"
// @Param        request  body      UpdateClassRequest  true  "Class data"
// @Success      200      {object}  ClassSession
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/classes/{classID} [put]
func (h *Handler) UpdateClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	var req UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), classID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrClassInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrClassNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update class"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// RemoveClass godoc
// @Summary      Delete or deactivate class
// @Description  Deletes a class without bookings; deactivates one that has any.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      200      {object}  RemoveClassResponse
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/classes/{classID} [delete]
func (h *Handler) RemoveClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	deactivated, err := h.service.Remove(c.Request.Context(), classID)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove class"})
		return
	}

	msg := "Class deleted"
	if deactivated {
		msg = "Class deactivated, bookings on record"
	}
	c.JSON(http.StatusOK, RemoveClassResponse{Message: msg, Deactivated: deactivated})
}
