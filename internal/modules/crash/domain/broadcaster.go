package domain

// Event types pushed to connected clients
const (
	EventRoundWaiting = "round_waiting"
	EventRoundStarted = "round_started"
	EventRoundCrashed = "round_crashed"
	EventCashout      = "cashout"
	EventBetForfeited = "bet_forfeited"
)

// Event is a round lifecycle or settlement notification
type Event struct {
	Type       string  `json:"type"`
	RoundID    string  `json:"round_id"`
	CrashPoint float64 `json:"crash_point,omitempty"` // crashed only
	Countdown  int64   `json:"countdown,omitempty"`   // seconds, waiting only
	Multiplier float64 `json:"multiplier,omitempty"`
	Payout     float64 `json:"payout,omitempty"`
	Timestamp  int64   `json:"timestamp"`
}

// Broadcaster pushes events to connected clients. Implemented by the
// gateway's WebSocket manager; a nil broadcaster disables push.
type Broadcaster interface {
	Broadcast(event Event)
	SendToUser(userID int64, event Event)
}
