package main

import (
	"log"

	"github.com/dyplomin-hash/Couture/internal/config"
	"github.com/dyplomin-hash/Couture/internal/database"
	"github.com/dyplomin-hash/Couture/internal/game"
	"github.com/dyplomin-hash/Couture/internal/handlers"
	"github.com/dyplomin-hash/Couture/internal/middleware"
	"github.com/dyplomin-hash/Couture/internal/services"
	"github.com/dyplomin-hash/Couture/internal/telegram"
	"github.com/dyplomin-hash/Couture/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	archiveService := services.NewArchiveService(db)

	engine := game.NewEngine(game.Config{
		MainChatID: cfg.MainChatID,
		Topics: []game.Topic{
			{Key: "blitz", Title: "⚡️БЛИЦ⚡️", ID: cfg.TopicBlitzID},
			{Key: "black_mirror", Title: "🖤Черное зеркало🖤", ID: cfg.TopicBlackMirrorID},
		},
		BotUsername: cfg.BotUsername,
	}, game.NewRegistry(), archiveService, hub)

	client := telegram.NewClient(cfg.BotToken)
	dispatcher := telegram.NewDispatcher(client, engine)
	updateHandler := telegram.NewUpdateHandler(client, engine, dispatcher, cfg.MainChatID)
	bot := telegram.NewBot(client, updateHandler, cfg.BotToken, cfg.WebhookBaseURL, cfg.WebhookSecret)

	authHandler := handlers.NewAuthHandler(authService)
	historyHandler := handlers.NewHistoryHandler(archiveService)
	liveHandler := handlers.NewLiveHandler(engine)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	if cfg.WebhookBaseURL != "" && cfg.BotToken != "" {
		if err := bot.Start(); err != nil {
			log.Fatalf("failed to start bot: %v", err)
		}
		defer bot.Stop()
	} else {
		log.Println("WEBHOOK_BASE_URL or BOT_TOKEN not set, bot disabled")
	}
	r.POST("/webhook/bot/:secret", bot.HandleWebhook)

	r.GET("/health", liveHandler.Health)
	r.GET("/ws/live", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		api.GET("/live", liveHandler.GetLive)

		games := api.Group("/games")
		games.Use(middleware.JWTAuth(authService))
		{
			games.GET("", historyHandler.ListGames)
			games.GET("/:public_id", historyHandler.GetGame)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
