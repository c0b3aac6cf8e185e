package services

import (
	"testing"
	"time"

	"player-guess-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCreatedLazily(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)
	sessionID := uuid.NewString()

	_, err := svc.GetStats(sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	session, err := svc.SetNickname(sessionID, "goalhanger")
	require.NoError(t, err)
	assert.Equal(t, "goalhanger", session.Nickname)
	assert.Equal(t, 0, session.Streak)

	stats, err := svc.GetStats(sessionID)
	require.NoError(t, err)
	assert.Equal(t, "goalhanger", stats.Nickname)
}

func TestResetStreakKeepsBest(t *testing.T) {
	db := newTestDB(t)
	svc := NewSessionService(db)
	sessionID := uuid.NewString()

	require.NoError(t, db.Create(&models.GameSession{
		ID:         sessionID,
		Streak:     7,
		BestStreak: 12,
		TotalScore: 900,
	}).Error)

	session, err := svc.ResetStreak(sessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, session.Streak)
	assert.Equal(t, 12, session.BestStreak)
	assert.Equal(t, int64(900), session.TotalScore)

	_, err = svc.ResetStreak(uuid.NewString())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLeaderboardSnapshot(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	for i, total := range []int64{500, 1200, 0, 800} {
		require.NoError(t, db.Create(&models.GameSession{
			ID:         uuid.NewString(),
			Nickname:   []string{"a", "b", "c", "d"}[i],
			TotalScore: total,
			BestStreak: i,
		}).Error)
	}

	require.NoError(t, svc.Snapshot())

	entries, err := svc.Top(10)
	require.NoError(t, err)
	require.Len(t, entries, 3, "zero-score sessions stay off the board")
	assert.Equal(t, "b", entries[0].Nickname)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "d", entries[1].Nickname)
	assert.Equal(t, "a", entries[2].Nickname)
	assert.Equal(t, 3, entries[2].Rank)

	// Re-snapshot replaces, never duplicates.
	require.NoError(t, svc.Snapshot())
	entries, err = svc.Top(10)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestSweeperDeletesOnlyExpiredUnscored(t *testing.T) {
	db := newTestDB(t)
	player := seedPlayer(t, db, "Erling Haaland", easyStats())
	svc := NewSweeperService(db)

	old := time.Now().Add(-2 * time.Hour).Unix()

	stale := models.Round{
		ID: uuid.NewString(), PlayerID: player.ID, SessionID: uuid.NewString(),
		StartedAt: old, ExpiresAt: old,
	}
	scored := models.Round{
		ID: uuid.NewString(), PlayerID: player.ID, SessionID: uuid.NewString(),
		StartedAt: old, ExpiresAt: old,
	}
	fresh := models.Round{
		ID: uuid.NewString(), PlayerID: player.ID, SessionID: uuid.NewString(),
		StartedAt: time.Now().Unix(), ExpiresAt: time.Now().Add(10 * time.Minute).Unix(),
	}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&scored).Error)
	require.NoError(t, db.Create(&fresh).Error)
	require.NoError(t, db.Create(&models.Score{
		ID: uuid.NewString(), RoundID: scored.ID, SessionID: scored.SessionID,
	}).Error)

	n, err := svc.SweepOnce()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var remaining int64
	require.NoError(t, db.Model(&models.Round{}).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)

	var gone models.Round
	err = db.First(&gone, "id = ?", stale.ID).Error
	assert.Error(t, err)
}
