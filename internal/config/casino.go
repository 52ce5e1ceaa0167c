package config

import "time"

// CasinoConfig holds game engine settings
type CasinoConfig struct {
	CrashRepoType string // memory, redis

	// Crash round phase durations
	CrashWaitingDuration time.Duration // betting window
	CrashRestDuration    time.Duration // pause after a crash before the next round

	// Multiplier growth per second while a crash round is in progress
	CrashGrowthRate float64

	// Starting balance for new accounts, in cents
	InitialBalanceCents int64
}

// LoadCasinoConfig loads game engine configuration
func LoadCasinoConfig() CasinoConfig {
	return CasinoConfig{
		CrashRepoType:        getEnv("CRASH_REPO_TYPE", "memory"),
		CrashWaitingDuration: getEnvDuration("CRASH_WAITING_DURATION", 7*time.Second),
		CrashRestDuration:    getEnvDuration("CRASH_REST_DURATION", 3*time.Second),
		CrashGrowthRate:      0.20,
		InitialBalanceCents:  int64(getEnvInt("INITIAL_BALANCE_CENTS", 10000)),
	}
}
