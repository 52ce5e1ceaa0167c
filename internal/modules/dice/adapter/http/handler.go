// Package http exposes the dice game endpoint.
package http

import (
	"errors"
	"net/http"

	"github.com/9yuq/nexus/internal/modules/dice/domain"
	"github.com/9yuq/nexus/internal/modules/dice/usecase"
	walletdomain "github.com/9yuq/nexus/internal/modules/wallet/domain"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the dice game
type Handler struct {
	svc *usecase.DiceUseCase
}

// NewHandler creates a new HTTP handler
func NewHandler(svc *usecase.DiceUseCase) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers dice routes on an authenticated group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/roll", h.Roll)
}

type rollRequest struct {
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Prediction int     `json:"prediction" binding:"required"`
	IsUnder    bool    `json:"is_under"`
}

type rollResponse struct {
	Roll       int     `json:"roll"`
	Win        bool    `json:"win"`
	Multiplier float64 `json:"multiplier"`
	Payout     float64 `json:"payout"`
	NewBalance float64 `json:"new_balance"`
}

// Roll places and settles one dice bet
func (h *Handler) Roll(c *gin.Context) {
	var req rollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt64("user_id")
	result, err := h.svc.Roll(c.Request.Context(), userID, walletdomain.Cents(req.Amount), req.Prediction, req.IsUnder)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rollResponse{
		Roll:       result.Roll,
		Win:        result.Win,
		Multiplier: result.Multiplier,
		Payout:     walletdomain.Amount(result.Payout),
		NewBalance: walletdomain.Amount(result.NewBalance),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidPrediction),
		errors.Is(err, domain.ErrImpossibleBet),
		errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, walletdomain.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, walletdomain.ErrAccountNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
