// workers/player_sync_worker.go — polls the scraper service for changed players
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"player-guess-system/services"
	"player-guess-system/utils"

	"gorm.io/gorm"
)

// PlayerSyncClient pulls incremental player/stat updates from the
// scraper service's change feed and upserts them locally.
type PlayerSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Importer   *services.ImportService
}

func NewPlayerSyncClient(db *gorm.DB) *PlayerSyncClient {
	baseURL := os.Getenv("SCRAPER_SERVICE_URL")
	if baseURL == "" {
		log.Fatal("SCRAPER_SERVICE_URL environment variable is required for player sync")
	}
	token := os.Getenv("GAME_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("GAME_SERVICE_TOKEN environment variable is required for player sync")
	}

	return &PlayerSyncClient{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: utils.HTTPClient,
		Importer:   services.NewImportService(db),
	}
}

// GetChangedPlayers fetches players modified since the given time.
func (c *PlayerSyncClient) GetChangedPlayers(ctx context.Context, since time.Time) ([]services.PlayerRecord, error) {
	since = since.UTC()

	u, err := url.Parse(fmt.Sprintf("%s/api/v1/players", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call scraper service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("scraper service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Players []services.PlayerRecord `json:"players"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode scraper response: %w", err)
	}
	return response.Players, nil
}

// SyncOnce pulls and upserts one batch. Returns the count imported.
func (c *PlayerSyncClient) SyncOnce(ctx context.Context, since time.Time) (int, error) {
	players, err := c.GetChangedPlayers(ctx, since)
	if err != nil {
		return 0, err
	}
	if len(players) == 0 {
		return 0, nil
	}
	return c.Importer.UpsertPlayers(players)
}

// PollPlayers runs the sync loop until ctx is cancelled. The since
// cursor only advances after a successful batch so failures retry the
// same window.
func PollPlayers(ctx context.Context, client *PlayerSyncClient, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	since := time.Now().Add(-24 * time.Hour)

	for {
		select {
		case <-ctx.Done():
			log.Println("Player sync stopped")
			return
		case <-ticker.C:
			batchStart := time.Now()
			n, err := client.SyncOnce(ctx, since)
			if err != nil {
				log.Printf("[PLAYER_SYNC] sync failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("✅ [PLAYER_SYNC] upserted %d players", n)
			}
			since = batchStart
		}
	}
}
