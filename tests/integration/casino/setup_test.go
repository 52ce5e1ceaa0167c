package casino_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	crashhttp "github.com/9yuq/nexus/internal/modules/crash/adapter/http"
	crashmachine "github.com/9yuq/nexus/internal/modules/crash/machine"
	crashmemory "github.com/9yuq/nexus/internal/modules/crash/repository/memory"
	crashuc "github.com/9yuq/nexus/internal/modules/crash/usecase"
	dicehttp "github.com/9yuq/nexus/internal/modules/dice/adapter/http"
	diceuc "github.com/9yuq/nexus/internal/modules/dice/usecase"
	gatewayhttp "github.com/9yuq/nexus/internal/modules/gateway/adapter/http"
	gatewaylocal "github.com/9yuq/nexus/internal/modules/gateway/adapter/local"
	"github.com/9yuq/nexus/internal/modules/gateway/ws"
	historyhttp "github.com/9yuq/nexus/internal/modules/history/adapter/http"
	historymemory "github.com/9yuq/nexus/internal/modules/history/repository/memory"
	historyuc "github.com/9yuq/nexus/internal/modules/history/usecase"
	"github.com/9yuq/nexus/internal/modules/settlement"
	slotshttp "github.com/9yuq/nexus/internal/modules/slots/adapter/http"
	slotsuc "github.com/9yuq/nexus/internal/modules/slots/usecase"
	userhttp "github.com/9yuq/nexus/internal/modules/user/adapter/http"
	usermemory "github.com/9yuq/nexus/internal/modules/user/repository/memory"
	useruc "github.com/9yuq/nexus/internal/modules/user/usecase"
	wallethttp "github.com/9yuq/nexus/internal/modules/wallet/adapter/http"
	walletmemory "github.com/9yuq/nexus/internal/modules/wallet/repository/memory"
	walletuc "github.com/9yuq/nexus/internal/modules/wallet/usecase"
	"github.com/9yuq/nexus/internal/server"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init(logger.Config{Level: "error", Format: "console"})
}

type testServer struct {
	router  *gin.Engine
	machine *crashmachine.StateMachine
}

// newTestServer wires the full casino on in-memory storage
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	wallet := walletuc.NewWalletUseCase(walletmemory.NewAccountRepository(), walletmemory.NewTransactionRepository())
	userUC := useruc.NewUserUseCase(
		usermemory.NewUserRepository(),
		usermemory.NewSessionRepository(),
		wallet,
		10000,
		"integration-secret",
		time.Hour,
	)
	historyUC := historyuc.NewHistoryUseCase(historymemory.NewRepository(), userUC)
	engine := settlement.NewEngine(wallet, historyUC)

	wsManager := ws.NewManager()
	go wsManager.Run()
	broadcaster := gatewaylocal.NewBroadcaster(wsManager)

	sm := crashmachine.NewStateMachine()
	sm.WaitingDuration = 300 * time.Millisecond
	sm.RestDuration = 100 * time.Millisecond
	sm.GrowthRate = 1.0
	sm.CrashPointFn = func() float64 { return 5.00 }

	crashUC := crashuc.NewCrashUseCase(sm, crashmemory.NewBetRepository(), wallet, engine, broadcaster)

	wsAuth := func(token string) (int64, error) {
		userID, _, _, err := userUC.ValidateToken(context.Background(), token)
		return userID, err
	}

	router := server.NewRouter(server.Handlers{
		User:    userhttp.NewHandler(userUC),
		Wallet:  wallethttp.NewHandler(wallet),
		Crash:   crashhttp.NewHandler(crashUC),
		Dice:    dicehttp.NewHandler(diceuc.NewDiceUseCase(engine)),
		Slots:   slotshttp.NewHandler(slotsuc.NewSlotsUseCase(engine)),
		History: historyhttp.NewHandler(historyUC),
		Gateway: gatewayhttp.NewHandler(wsManager, crashUC, wsAuth),
	}, userUC)

	return &testServer{router: router, machine: sm}
}

// do performs one JSON request against the router
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed), "body: %s", w.Body.String())
	}
	return w, parsed
}

// signup registers and logs in a fresh user, returning their token
func (s *testServer) signup(t *testing.T, username string) string {
	t.Helper()

	w, _ := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"password": "password123",
		"email":    username + "@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, body := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}
