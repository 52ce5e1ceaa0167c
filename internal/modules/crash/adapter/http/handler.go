// Package http exposes the crash game endpoints.
package http

import (
	"errors"
	"net/http"

	"github.com/9yuq/nexus/internal/modules/crash/domain"
	"github.com/9yuq/nexus/internal/modules/crash/usecase"
	walletdomain "github.com/9yuq/nexus/internal/modules/wallet/domain"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the crash game
type Handler struct {
	svc *usecase.CrashUseCase
}

// NewHandler creates a new HTTP handler
func NewHandler(svc *usecase.CrashUseCase) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers crash routes on an authenticated group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/state", h.GetState)
	router.POST("/bet", h.PlaceBet)
	router.POST("/cashout", h.Cashout)
}

type betRequest struct {
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	AutoPayout float64 `json:"auto_payout"` // 0 = manual only
}

type betResponse struct {
	BetID      string  `json:"bet_id"`
	RoundID    string  `json:"round_id"`
	NewBalance float64 `json:"new_balance"`
}

type cashoutResponse struct {
	Multiplier float64 `json:"multiplier"`
	Payout     float64 `json:"payout"`
	NewBalance float64 `json:"new_balance"`
}

// GetState returns the public round state
func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.GetState(c.Request.Context()))
}

// PlaceBet joins the current round
func (h *Handler) PlaceBet(c *gin.Context) {
	var req betRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt64("user_id")
	bet, newBalance, err := h.svc.PlaceBet(c.Request.Context(), userID, walletdomain.Cents(req.Amount), req.AutoPayout)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, betResponse{
		BetID:      bet.BetID,
		RoundID:    bet.RoundID,
		NewBalance: walletdomain.Amount(newBalance),
	})
}

// Cashout settles the caller's bet at the current multiplier. The payout
// multiplier comes from the round clock, never from the request.
func (h *Handler) Cashout(c *gin.Context) {
	userID := c.GetInt64("user_id")

	multiplier, payout, newBalance, err := h.svc.Cashout(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cashoutResponse{
		Multiplier: multiplier,
		Payout:     walletdomain.Amount(payout),
		NewBalance: walletdomain.Amount(newBalance),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidBet):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrWrongPhase),
		errors.Is(err, domain.ErrAlreadyCrashed),
		errors.Is(err, domain.ErrBetAlreadyPlaced),
		errors.Is(err, walletdomain.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoActiveBet),
		errors.Is(err, walletdomain.ErrAccountNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
