// services/player_import.go — scraped dataset ingestion
package services

import (
	"encoding/json"
	"fmt"
	"log"

	"player-guess-system/models"
	"player-guess-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ImportService struct {
	DB *gorm.DB
}

func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{DB: db}
}

// PlayerRecord is the dataset shape the scraper pipeline produces, both
// in R2 dataset objects and in the sync service's change feed.
type PlayerRecord struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	Position    string `json:"position"`
	BirthYear   int    `json:"birth_year"`
	CurrentClub string `json:"current_club"`
	Stats       []struct {
		CompetitionID string `json:"competition_id"`
		Appearances   int    `json:"appearances"`
	} `json:"stats"`
}

// UpsertPlayers writes a batch of scraped records, keyed on the
// normalized name so re-imports update rather than duplicate.
func (s *ImportService) UpsertPlayers(records []PlayerRecord) (int, error) {
	imported := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			normalized := utils.NormalizeName(rec.Name)
			if normalized == "" {
				log.Printf("[Import] skipping record with empty name: %+v", rec)
				continue
			}

			player := models.Player{
				ID:             uuid.NewString(),
				Name:           rec.Name,
				NormalizedName: normalized,
				Nationality:    rec.Nationality,
				Position:       rec.Position,
				BirthYear:      rec.BirthYear,
				CurrentClub:    rec.CurrentClub,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "normalized_name"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "nationality", "position", "birth_year", "current_club", "updated_at"}),
			}).Create(&player).Error; err != nil {
				return fmt.Errorf("upsert player %q: %w", rec.Name, err)
			}

			// The conflict path keeps the existing row's ID — re-read it.
			var saved models.Player
			if err := tx.Where("normalized_name = ?", normalized).First(&saved).Error; err != nil {
				return err
			}

			for _, st := range rec.Stats {
				stat := models.PlayerStat{
					ID:            uuid.NewString(),
					PlayerID:      saved.ID,
					CompetitionID: st.CompetitionID,
					Appearances:   st.Appearances,
				}
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "player_id"}, {Name: "competition_id"}},
					DoUpdates: clause.AssignmentColumns([]string{"appearances", "updated_at"}),
				}).Create(&stat).Error; err != nil {
					return fmt.Errorf("upsert stat %s/%s: %w", rec.Name, st.CompetitionID, err)
				}
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}

// ImportFromR2 pulls a JSON dataset object from the R2 bucket — the
// scraper pipeline's drop point — and upserts its players.
func (s *ImportService) ImportFromR2(key string) (int, error) {
	raw, err := utils.FetchObjectFromR2(key)
	if err != nil {
		return 0, fmt.Errorf("fetch dataset %q: %w", key, err)
	}

	var dataset struct {
		Players []PlayerRecord `json:"players"`
	}
	if err := json.Unmarshal(raw, &dataset); err != nil {
		return 0, fmt.Errorf("decode dataset %q: %w", key, err)
	}

	return s.UpsertPlayers(dataset.Players)
}
