package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ListPackages godoc
// @Summary      List active packages
// @Tags         packages
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Package
// @Failure      500  {object}  gin.H
// @Router       /packages [get]
func (h *Handler) ListPackages(c *gin.Context) {
	packages, err := h.repo.ListActivePackages(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, packages)
}
