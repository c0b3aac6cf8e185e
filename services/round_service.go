// services/round_service.go — round lifecycle orchestration
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"player-guess-system/models"
	"player-guess-system/token"
	"player-guess-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoundConfig struct {
	TTL          time.Duration
	MaxClues     int
	GraceSeconds float64
}

func DefaultRoundConfig() RoundConfig {
	return RoundConfig{
		TTL:      10 * time.Minute,
		MaxClues: 10,
	}
}

type RoundService struct {
	DB      *gorm.DB
	Codec   *token.Codec
	Limiter RateLimiter
	Config  RoundConfig

	now func() time.Time
}

func NewRoundService(db *gorm.DB, codec *token.Codec, limiter RateLimiter, cfg RoundConfig) *RoundService {
	if limiter == nil {
		limiter = AllowAll{}
	}
	return &RoundService{DB: db, Codec: codec, Limiter: limiter, Config: cfg, now: time.Now}
}

// RoundInfo is what the client gets on create/restore. The player stays
// hidden; only the token carries its identity, signed.
type RoundInfo struct {
	RoundID         string     `json:"round_id"`
	Token           string     `json:"token"`
	CluesUsed       int        `json:"clues_used"`
	CluesRemaining  int        `json:"clues_remaining"`
	MaxCluesAllowed int        `json:"max_clues_allowed"`
	ExpiresAt       int64      `json:"expires_at"`
	Difficulty      Difficulty `json:"difficulty"`
}

type ClueResult struct {
	CluesUsed      int `json:"clues_used"`
	CluesRemaining int `json:"clues_remaining"`
}

type GuessResult struct {
	Correct     bool           `json:"correct"`
	Score       int            `json:"score"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
	Streak      int            `json:"streak"`
	BestStreak  int            `json:"best_streak"`
	PlayerName  string         `json:"player_name"`
	Difficulty  Difficulty     `json:"difficulty"`
	LegacyScore int            `json:"legacy_score"` // display-only, old multiplicative formula
}

type SurrenderResult struct {
	OK         bool   `json:"ok"`
	PlayerName string `json:"player_name"`
}

func statRows(stats []models.PlayerStat) []StatRow {
	rows := make([]StatRow, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, StatRow{CompetitionID: st.CompetitionID, Appearances: st.Appearances})
	}
	return rows
}

// CreateRound picks a random player, persists a fresh round bound to the
// session and mints its token. The token's exp mirrors the round row's
// expiry (milliseconds on the wire).
func (s *RoundService) CreateRound(sessionID string, forceUltra bool) (*RoundInfo, error) {
	var player models.Player
	if err := s.DB.Preload("Stats").Order("RANDOM()").First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPlayers
		}
		return nil, err
	}

	now := s.now()
	round := models.Round{
		ID:              uuid.NewString(),
		PlayerID:        player.ID,
		SessionID:       sessionID,
		ForceUltra:      forceUltra,
		MaxCluesAllowed: s.Config.MaxClues,
		StartedAt:       now.Unix(),
		ExpiresAt:       now.Add(s.Config.TTL).Unix(),
	}
	if err := s.DB.Create(&round).Error; err != nil {
		return nil, err
	}

	return s.roundInfo(&round, &player)
}

// RestoreRound re-serves the session's newest unscored, unexpired round
// with a re-minted token. The original expiry is kept — restoring never
// extends the clock.
func (s *RoundService) RestoreRound(sessionID string) (*RoundInfo, error) {
	var round models.Round
	err := s.DB.
		Where("session_id = ? AND expires_at > ? AND id NOT IN (SELECT round_id FROM scores)", sessionID, s.now().Unix()).
		Order("started_at DESC").
		First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	var player models.Player
	if err := s.DB.Preload("Stats").First(&player, "id = ?", round.PlayerID).Error; err != nil {
		return nil, fmt.Errorf("round %s references missing player: %w", round.ID, err)
	}

	return s.roundInfo(&round, &player)
}

func (s *RoundService) roundInfo(round *models.Round, player *models.Player) (*RoundInfo, error) {
	tok, err := s.Codec.Create(token.Payload{
		RoundID:   round.ID,
		PlayerID:  round.PlayerID,
		SessionID: round.SessionID,
		Exp:       round.ExpiresAt * 1000,
	})
	if err != nil {
		return nil, err
	}

	return &RoundInfo{
		RoundID:         round.ID,
		Token:           tok,
		CluesUsed:       round.CluesUsed,
		CluesRemaining:  round.MaxCluesAllowed - round.CluesUsed,
		MaxCluesAllowed: round.MaxCluesAllowed,
		ExpiresAt:       round.ExpiresAt,
		Difficulty:      ComputeDifficulty(statRows(player.Stats), DifficultyOpts{ForceUltra: round.ForceUltra}),
	}, nil
}

// verifyAndLoad runs the checks every operation shares, in the contract
// order: token → load → ownership. Expiry is the caller's next step.
func (s *RoundService) verifyAndLoad(tok string) (*models.Round, error) {
	payload, err := s.Codec.Verify(tok)
	if err != nil {
		return nil, err
	}

	var round models.Round
	if err := s.DB.First(&round, "id = ?", payload.RoundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	if round.SessionID != payload.SessionID {
		return nil, ErrUnauthorized
	}
	return &round, nil
}

// RevealClue atomically spends one clue. The cap check and the increment
// are a single guarded UPDATE so a burst of concurrent reveals can never
// push CluesUsed past MaxCluesAllowed.
func (s *RoundService) RevealClue(tok string) (*ClueResult, error) {
	round, err := s.verifyAndLoad(tok)
	if err != nil {
		return nil, err
	}
	if !s.Limiter.Allow("clue:" + round.SessionID) {
		return nil, ErrRateLimited
	}
	if s.now().Unix() >= round.ExpiresAt {
		return nil, ErrRoundExpired
	}

	// A scored round is no longer playable, expired or not.
	var scored int64
	if err := s.DB.Model(&models.Score{}).Where("round_id = ?", round.ID).Count(&scored).Error; err != nil {
		return nil, err
	}
	if scored > 0 {
		return nil, ErrRoundExpired
	}

	var result ClueResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Round{}).
			Where("id = ? AND clues_used < max_clues_allowed", round.ID).
			UpdateColumn("clues_used", gorm.Expr("clues_used + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrClueLimitReached
		}

		var updated models.Round
		if err := tx.First(&updated, "id = ?", round.ID).Error; err != nil {
			return err
		}
		result = ClueResult{
			CluesUsed:      updated.CluesUsed,
			CluesRemaining: updated.MaxCluesAllowed - updated.CluesUsed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitGuess scores the round: exactly one Score row per round, all
// session effects in the same transaction. A retried submission replays
// the persisted outcome instead of recomputing.
func (s *RoundService) SubmitGuess(tok, guess string) (*GuessResult, error) {
	round, err := s.verifyAndLoad(tok)
	if err != nil {
		return nil, err
	}
	if !s.Limiter.Allow("guess:" + round.SessionID) {
		return nil, ErrRateLimited
	}
	if s.now().Unix() >= round.ExpiresAt {
		return nil, ErrRoundExpired
	}

	var player models.Player
	if err := s.DB.Preload("Stats").First(&player, "id = ?", round.PlayerID).Error; err != nil {
		return nil, fmt.Errorf("round %s references missing player: %w", round.ID, err)
	}

	normalized := utils.NormalizeName(guess)
	correct := normalized != "" && normalized == player.NormalizedName
	diff := ComputeDifficulty(statRows(player.Stats), DifficultyOpts{ForceUltra: round.ForceUltra})
	elapsed := float64(s.now().Unix() - round.StartedAt)

	var result *GuessResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := ensureSession(tx, round.SessionID)
		if err != nil {
			return err
		}

		breakdown := CalculateScore(diff, round.CluesUsed, session.Streak, ScoreOpts{
			ElapsedSeconds: elapsed,
			GraceSeconds:   s.Config.GraceSeconds,
		})

		scoreValue := 0
		newStreak := 0
		if correct {
			scoreValue = breakdown.FinalScore
			newStreak = session.Streak + 1
		}

		score := models.Score{
			ID:            uuid.NewString(),
			RoundID:       round.ID,
			SessionID:     round.SessionID,
			Correct:       correct,
			Score:         scoreValue,
			BaseScore:     breakdown.AdjustedBase,
			TimeScore:     breakdown.TimeBonus,
			Streak:        newStreak,
			MalicePenalty: breakdown.MalicePenalty,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "round_id"}},
			DoNothing: true,
		}).Create(&score)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already scored (client retry or concurrent submit): answer
			// from what was persisted, leave the session untouched.
			var existing models.Score
			if err := tx.Where("round_id = ?", round.ID).First(&existing).Error; err != nil {
				return err
			}
			result = replayGuessResult(session, &existing, player.Name, diff, round.CluesUsed)
			return nil
		}

		session.Streak = newStreak
		if newStreak > session.BestStreak {
			session.BestStreak = newStreak
		}
		session.TotalScore += int64(scoreValue)
		session.LastRoundID = round.ID
		session.LastRoundScore = scoreValue
		if raw, err := json.Marshal(breakdown); err == nil {
			session.LastRoundBreakdown = string(raw)
		}
		if err := tx.Save(session).Error; err != nil {
			return err
		}

		result = &GuessResult{
			Correct:     correct,
			Score:       scoreValue,
			Breakdown:   breakdown,
			Streak:      newStreak,
			BestStreak:  session.BestStreak,
			PlayerName:  player.Name,
			Difficulty:  diff,
			LegacyScore: LegacyDisplayScore(diff, round.CluesUsed, 0),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func replayGuessResult(session *models.GameSession, sc *models.Score, playerName string, diff Difficulty, cluesUsed int) *GuessResult {
	var breakdown ScoreBreakdown
	if session.LastRoundID == sc.RoundID && session.LastRoundBreakdown != "" {
		_ = json.Unmarshal([]byte(session.LastRoundBreakdown), &breakdown)
	}
	return &GuessResult{
		Correct:     sc.Correct,
		Score:       sc.Score,
		Breakdown:   breakdown,
		Streak:      sc.Streak,
		BestStreak:  session.BestStreak,
		PlayerName:  playerName,
		Difficulty:  diff,
		LegacyScore: LegacyDisplayScore(diff, cluesUsed, 0),
	}
}

// Surrender ends the round with a zero score and resets the streak.
// Same idempotency as SubmitGuess: a second surrender is a no-op success.
func (s *RoundService) Surrender(tok string) (*SurrenderResult, error) {
	round, err := s.verifyAndLoad(tok)
	if err != nil {
		return nil, err
	}
	if s.now().Unix() >= round.ExpiresAt {
		return nil, ErrRoundExpired
	}

	var player models.Player
	if err := s.DB.First(&player, "id = ?", round.PlayerID).Error; err != nil {
		return nil, fmt.Errorf("round %s references missing player: %w", round.ID, err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		session, err := ensureSession(tx, round.SessionID)
		if err != nil {
			return err
		}

		score := models.Score{
			ID:        uuid.NewString(),
			RoundID:   round.ID,
			SessionID: round.SessionID,
			Correct:   false,
			Score:     0,
			Streak:    0,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "round_id"}},
			DoNothing: true,
		}).Create(&score)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // already scored, nothing to mutate
		}

		session.Streak = 0
		session.LastRoundID = round.ID
		session.LastRoundScore = 0
		session.LastRoundBreakdown = ""
		return tx.Save(session).Error
	})
	if err != nil {
		return nil, err
	}
	return &SurrenderResult{OK: true, PlayerName: player.Name}, nil
}
