package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/class"
)

func TestClockTimeValidation(t *testing.T) {
	RegisterValidations()

	router := gin.New()
	router.POST("/classes", func(c *gin.Context) {
		var req class.CreateClassRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tests := []struct {
		name       string
		startTime  string
		wantStatus int
	}{
		{"full clock time", "10:00:00", http.StatusOK},
		{"short clock time", "10:00", http.StatusOK},
		{"out of range", "25:00", http.StatusBadRequest},
		{"garbage", "morning", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{
				"title": "Reformer",
				"date": "2025-03-15",
				"start_time": "` + tt.startTime + `",
				"end_time": "11:00:00",
				"instructor_name": "Ani",
				"max_capacity": 6
			}`

			req := httptest.NewRequest("POST", "/classes", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
