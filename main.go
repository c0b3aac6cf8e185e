package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"player-guess-system/handlers"
	"player-guess-system/middleware"
	"player-guess-system/models"
	"player-guess-system/services"
	"player-guess-system/token"
	"player-guess-system/utils"
	"player-guess-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("⚠️  %s is not an integer, using default %d", key, fallback)
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-Session-ID, X-Service-Token, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Player{},
		&models.PlayerStat{},
		&models.Round{},
		&models.GameSession{},
		&models.Score{},
		&models.LeaderboardEntry{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// R2 is where the scraper pipeline drops player datasets; imports are
	// disabled (not fatal) when the bucket is not configured.
	r2Ready := false
	if os.Getenv("CLOUDFLARE_ACCOUNT_ID") != "" {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		r2Ready = true
	} else {
		log.Println("⚠️  CLOUDFLARE_ACCOUNT_ID not set — R2 dataset imports disabled")
	}

	codec := token.NewCodecFromEnv()
	limiter := services.NewMemoryRateLimiter(time.Minute, 60)

	roundConfig := services.RoundConfig{
		TTL:          time.Duration(envInt("ROUND_TTL_SECONDS", 600)) * time.Second,
		MaxClues:     envInt("MAX_CLUES", 10),
		GraceSeconds: float64(envInt("GUESS_GRACE_SECONDS", 0)),
	}

	roundService := services.NewRoundService(db, codec, limiter, roundConfig)
	sessionService := services.NewSessionService(db)
	leaderboardService := services.NewLeaderboardService(db)
	importService := services.NewImportService(db)
	sweeperService := services.NewSweeperService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Player sync worker is optional: without a scraper service the
	// player table is fed by R2 imports alone.
	if os.Getenv("SCRAPER_SERVICE_URL") != "" {
		syncClient := workers.NewPlayerSyncClient(db)
		go workers.PollPlayers(ctx, syncClient, 10*time.Minute)
		log.Println("✅ Player sync worker running (every 10m)")
	} else {
		log.Println("⚠️  SCRAPER_SERVICE_URL not set — player sync worker disabled")
	}

	leaderboardService.StartSnapshotScheduler()
	sweeperService.StartSweepScheduler()

	handlers.SetupRoundRoutes(app, roundService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService, sessionService)
	handlers.SetupAdminRoutes(app, sessionService, importService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ Round TTL=%s, max clues=%d", roundConfig.TTL, roundConfig.MaxClues)
	if r2Ready {
		log.Println("✅ R2 dataset imports enabled")
	}

	<-ctx.Done()
	log.Println("Shutting down server...")
}
