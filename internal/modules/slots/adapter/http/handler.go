// Package http exposes the slots endpoint.
package http

import (
	"errors"
	"net/http"

	"github.com/9yuq/nexus/internal/modules/slots/domain"
	"github.com/9yuq/nexus/internal/modules/slots/usecase"
	walletdomain "github.com/9yuq/nexus/internal/modules/wallet/domain"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the slot machine
type Handler struct {
	svc *usecase.SlotsUseCase
}

// NewHandler creates a new HTTP handler
func NewHandler(svc *usecase.SlotsUseCase) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers slots routes on an authenticated group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/spin", h.Spin)
}

type spinRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type spinResponse struct {
	Reels      [3]int  `json:"reels"`
	Win        bool    `json:"win"`
	Multiplier float64 `json:"multiplier"`
	Payout     float64 `json:"payout"`
	NewBalance float64 `json:"new_balance"`
}

// Spin places and settles one spin
func (h *Handler) Spin(c *gin.Context) {
	var req spinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt64("user_id")
	result, err := h.svc.Spin(c.Request.Context(), userID, walletdomain.Cents(req.Amount))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			status = http.StatusBadRequest
		case errors.Is(err, walletdomain.ErrInsufficientBalance):
			status = http.StatusConflict
		case errors.Is(err, walletdomain.ErrAccountNotFound):
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, spinResponse{
		Reels:      result.Reels,
		Win:        result.Win,
		Multiplier: result.Multiplier,
		Payout:     walletdomain.Amount(result.Payout),
		NewBalance: walletdomain.Amount(result.NewBalance),
	})
}
