// Package http exposes the wallet endpoints.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/9yuq/nexus/internal/modules/wallet/domain"
	"github.com/9yuq/nexus/internal/modules/wallet/usecase"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the wallet module
type Handler struct {
	svc *usecase.WalletUseCase
}

// NewHandler creates a new HTTP handler
func NewHandler(svc *usecase.WalletUseCase) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers wallet routes on an authenticated group
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/balance", h.GetBalance)
	router.POST("/deposit", h.Deposit)
	router.POST("/withdraw", h.Withdraw)
	router.GET("/transactions", h.ListTransactions)
}

type moveFundsRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type balanceResponse struct {
	Balance      float64 `json:"balance"`
	VIPLevel     int     `json:"vip_level"`
	TotalWagered float64 `json:"total_wagered"`
}

// GetBalance returns the caller's account
func (h *Handler) GetBalance(c *gin.Context) {
	userID := c.GetInt64("user_id")

	account, err := h.svc.GetAccount(c.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrAccountNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, balanceResponse{
		Balance:      domain.Amount(account.Balance),
		VIPLevel:     account.VIPLevel,
		TotalWagered: domain.Amount(account.TotalWagered),
	})
}

// Deposit credits the caller's account
func (h *Handler) Deposit(c *gin.Context) {
	var req moveFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt64("user_id")
	newBalance, err := h.svc.Deposit(c.Request.Context(), userID, domain.Cents(req.Amount))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": domain.Amount(newBalance)})
}

// Withdraw debits the caller's account
func (h *Handler) Withdraw(c *gin.Context) {
	var req moveFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt64("user_id")
	newBalance, err := h.svc.Withdraw(c.Request.Context(), userID, domain.Cents(req.Amount))
	if err != nil {
		logger.Warn(c.Request.Context()).Err(err).Int64("user_id", userID).Msg("Withdraw rejected")
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": domain.Amount(newBalance)})
}

// ListTransactions returns the caller's deposit/withdraw records
func (h *Handler) ListTransactions(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	transactions, err := h.svc.ListTransactions(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
