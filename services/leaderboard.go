// services/leaderboard.go — snapshot read model + scheduler
package services

import (
	"log"
	"time"

	"player-guess-system/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const leaderboardSize = 100

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// Top returns up to limit snapshot entries by rank.
func (s *LeaderboardService) Top(limit int) ([]models.LeaderboardEntry, error) {
	if limit < 1 || limit > leaderboardSize {
		limit = leaderboardSize
	}
	var entries []models.LeaderboardEntry
	err := s.DB.Order("rank ASC").Limit(limit).Find(&entries).Error
	return entries, err
}

// Snapshot rebuilds the leaderboard from session totals. Delete+insert
// inside one transaction so readers never see a half-built board.
func (s *LeaderboardService) Snapshot() error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var sessions []models.GameSession
		if err := tx.Where("total_score > 0").
			Order("total_score DESC, best_streak DESC").
			Limit(leaderboardSize).
			Find(&sessions).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("1 = 1").Delete(&models.LeaderboardEntry{}).Error; err != nil {
			return err
		}

		now := time.Now()
		for i, sess := range sessions {
			entry := models.LeaderboardEntry{
				ID:         uuid.NewString(),
				SessionID:  sess.ID,
				Nickname:   sess.Nickname,
				Rank:       i + 1,
				TotalScore: sess.TotalScore,
				BestStreak: sess.BestStreak,
				SnapshotAt: now,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// StartSnapshotScheduler refreshes the board every 5 minutes.
func (s *LeaderboardService) StartSnapshotScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			if err := s.Snapshot(); err != nil {
				log.Printf("[Leaderboard] snapshot failed: %v", err)
			}
		}),
	)
}
