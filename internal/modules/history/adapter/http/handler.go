// Package http exposes the history and lobby feed endpoints.
package http

import (
	"net/http"
	"strconv"

	"github.com/9yuq/nexus/internal/modules/history/usecase"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for game history
type Handler struct {
	svc *usecase.HistoryUseCase
}

// NewHandler creates a new HTTP handler
func NewHandler(svc *usecase.HistoryUseCase) *Handler {
	return &Handler{svc: svc}
}

// GetHistory returns the caller's settled bets, newest first
func (h *Handler) GetHistory(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, err := h.svc.GetUserHistory(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": records})
}

// GetRecentBets returns the public lobby feed
func (h *Handler) GetRecentBets(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	feed, err := h.svc.GetRecentBets(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recent_bets": feed})
}
