package casino_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	// Unauthenticated access is rejected.
	w, _ := s.do(t, http.MethodGet, "/api/wallet/balance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.signup(t, "alice")

	// Fresh accounts start with 100.00.
	w, body := s.do(t, http.MethodGet, "/api/wallet/balance", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100.00, body["balance"])

	// The profile endpoint returns the caller's own record.
	w, body = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, body, "password_hash")

	// Duplicate registration conflicts.
	w, _ = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"password": "password123",
		"email":    "alice2@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Bad login.
	w, _ = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWalletFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "bob")

	w, body := s.do(t, http.MethodPost, "/api/wallet/deposit", token, gin.H{"amount": 25.50})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 125.50, body["balance"])

	w, body = s.do(t, http.MethodPost, "/api/wallet/withdraw", token, gin.H{"amount": 25.50})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100.00, body["balance"])

	// Overdraw conflicts and leaves the balance alone.
	w, _ = s.do(t, http.MethodPost, "/api/wallet/withdraw", token, gin.H{"amount": 1000.00})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body = s.do(t, http.MethodGet, "/api/wallet/transactions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	txs := body["transactions"].([]interface{})
	require.Len(t, txs, 2)

	// Newest first: the withdraw came after the deposit.
	assert.Equal(t, "withdraw", txs[0].(map[string]interface{})["type"])
	assert.Equal(t, "deposit", txs[1].(map[string]interface{})["type"])
}

func TestDiceFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "carol")

	w, body := s.do(t, http.MethodPost, "/api/games/dice/roll", token, gin.H{
		"amount":     50.00,
		"prediction": 48,
		"is_under":   true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2.13, body["multiplier"])

	roll := body["roll"].(float64)
	if body["win"].(bool) {
		assert.Less(t, roll, 48.0)
		assert.Equal(t, 156.50, body["new_balance"])
	} else {
		assert.GreaterOrEqual(t, roll, 48.0)
		assert.Equal(t, 50.00, body["new_balance"])
	}

	// Corner bet rejected.
	w, _ = s.do(t, http.MethodPost, "/api/games/dice/roll", token, gin.H{
		"amount":     10.00,
		"prediction": 1,
		"is_under":   true,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Stake beyond the balance conflicts.
	w, _ = s.do(t, http.MethodPost, "/api/games/dice/roll", token, gin.H{
		"amount":     100000.00,
		"prediction": 48,
		"is_under":   true,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSlotsFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "dave")

	w, body := s.do(t, http.MethodPost, "/api/games/slots/spin", token, gin.H{"amount": 10.00})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	reels := body["reels"].([]interface{})
	require.Len(t, reels, 3)

	payout := body["payout"].(float64)
	assert.Equal(t, 100.00-10.00+payout, body["new_balance"])
}

func TestHistoryAndRecentBets(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "erin")

	for i := 0; i < 3; i++ {
		w, _ := s.do(t, http.MethodPost, "/api/games/slots/spin", token, gin.H{"amount": 1.00})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, body := s.do(t, http.MethodGet, "/api/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["history"], 3)

	// The lobby feed is public and carries usernames.
	w, body = s.do(t, http.MethodGet, "/api/recent-bets", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := body["recent_bets"].([]interface{})
	require.Len(t, feed, 3)
	first := feed[0].(map[string]interface{})
	assert.Equal(t, "erin", first["username"])
}

func TestCrashStateEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "frank")

	go s.machine.Start(t.Context())
	defer s.machine.Stop()

	// Wait until the machine opens a betting window.
	var roundID string
	for i := 0; i < 100; i++ {
		w, body := s.do(t, http.MethodGet, "/api/games/crash/state", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		if body["phase"] == "waiting" {
			roundID = body["round_id"].(string)
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NotEmpty(t, roundID, "machine never reached the waiting phase")

	w, body := s.do(t, http.MethodPost, "/api/games/crash/bet", token, gin.H{"amount": 10.00})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, roundID, body["round_id"])
	assert.Equal(t, 90.00, body["new_balance"])

	// Second bet in the same round conflicts.
	w, _ = s.do(t, http.MethodPost, "/api/games/crash/bet", token, gin.H{"amount": 10.00})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Once the round launches, cashout pays out at the server's multiplier.
	for i := 0; i < 100; i++ {
		_, body = s.do(t, http.MethodGet, "/api/games/crash/state", token, nil)
		if body["phase"] == "in-progress" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, "in-progress", body["phase"])

	w, body = s.do(t, http.MethodPost, "/api/games/crash/cashout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	multiplier := body["multiplier"].(float64)
	payout := body["payout"].(float64)
	assert.GreaterOrEqual(t, multiplier, 1.00)
	assert.InDelta(t, 10.00*multiplier, payout, 0.01)
	assert.InDelta(t, 90.00+payout, body["new_balance"], 0.001)
}
