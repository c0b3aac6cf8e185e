package services

import "errors"

// Steady-state outcomes, not exceptions: every one of these is a 4xx the
// client recovers from by starting a new round (except ErrUnauthorized,
// which indicates token/session tampering or stale client state).
var (
	ErrRoundNotFound    = errors.New("round not found")
	ErrUnauthorized     = errors.New("round does not belong to this session")
	ErrRoundExpired     = errors.New("round is no longer playable")
	ErrClueLimitReached = errors.New("clue limit reached")
	ErrRateLimited      = errors.New("too many requests")
	ErrNoPlayers        = errors.New("no players available")
	ErrSessionNotFound  = errors.New("session not found")
)
