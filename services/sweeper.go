// services/sweeper.go — expired-round housekeeping
package services

import (
	"log"
	"time"

	"player-guess-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Expired unscored rounds are unrecoverable — keep them an hour for
// debugging, then drop them.
const sweepRetention = time.Hour

type SweeperService struct {
	DB *gorm.DB
}

func NewSweeperService(db *gorm.DB) *SweeperService {
	return &SweeperService{DB: db}
}

// SweepOnce deletes expired rounds that never received a score.
func (s *SweeperService) SweepOnce() (int64, error) {
	cutoff := time.Now().Add(-sweepRetention).Unix()
	// Unscoped: housekeeping reclaims rows for real, no soft-delete.
	res := s.DB.Unscoped().
		Where("expires_at < ? AND id NOT IN (SELECT round_id FROM scores)", cutoff).
		Delete(&models.Round{})
	return res.RowsAffected, res.Error
}

// StartSweepScheduler runs the sweep every minute.
func (s *SweeperService) StartSweepScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			n, err := s.SweepOnce()
			if err != nil {
				log.Printf("[Sweeper] DB error: %v", err)
				return
			}
			if n > 0 {
				log.Printf("✅ Swept %d expired rounds", n)
			}
		}),
	)
}
