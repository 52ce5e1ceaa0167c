// Package server assembles the HTTP surface of the casino.
package server

import (
	crashhttp "github.com/9yuq/nexus/internal/modules/crash/adapter/http"
	dicehttp "github.com/9yuq/nexus/internal/modules/dice/adapter/http"
	gatewayhttp "github.com/9yuq/nexus/internal/modules/gateway/adapter/http"
	historyhttp "github.com/9yuq/nexus/internal/modules/history/adapter/http"
	slotshttp "github.com/9yuq/nexus/internal/modules/slots/adapter/http"
	userhttp "github.com/9yuq/nexus/internal/modules/user/adapter/http"
	useruc "github.com/9yuq/nexus/internal/modules/user/usecase"
	wallethttp "github.com/9yuq/nexus/internal/modules/wallet/adapter/http"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Handlers collects every module's HTTP adapter
type Handlers struct {
	User    *userhttp.Handler
	Wallet  *wallethttp.Handler
	Crash   *crashhttp.Handler
	Dice    *dicehttp.Handler
	Slots   *slotshttp.Handler
	History *historyhttp.Handler
	Gateway *gatewayhttp.Handler
}

// NewRouter builds the gin engine with all routes mounted
func NewRouter(handlers Handlers, users *useruc.UserUseCase) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware())

	api := r.Group("/api")
	{
		handlers.User.RegisterRoutes(api.Group("/auth"))

		// Lobby feed is public
		api.GET("/recent-bets", handlers.History.GetRecentBets)

		authed := api.Group("")
		authed.Use(RequireAuth(users))
		{
			handlers.Wallet.RegisterRoutes(authed.Group("/wallet"))

			games := authed.Group("/games")
			handlers.Crash.RegisterRoutes(games.Group("/crash"))
			handlers.Dice.RegisterRoutes(games.Group("/dice"))
			handlers.Slots.RegisterRoutes(games.Group("/slots"))

			authed.GET("/auth/me", handlers.User.Me)
			authed.GET("/history", handlers.History.GetHistory)
		}
	}

	// WebSocket authenticates via its token query param
	r.GET("/ws", func(c *gin.Context) {
		handlers.Gateway.HandleWebSocket(c.Writer, c.Request)
	})

	return r
}
