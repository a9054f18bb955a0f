package main

import (
	"log"
	"net/http"
	"time"

	"cardmud/server/internal/auth"
	"cardmud/server/internal/config"
	"cardmud/server/internal/database"
	"cardmud/server/internal/game"
	"cardmud/server/internal/handler"
	"cardmud/server/internal/hub"
	"cardmud/server/internal/mud"

	"github.com/gin-gonic/gin"
)

func init() {
	config.LoadConfig()
}

func main() {
	cfg := config.AppConfig

	// Connect to the database and make sure the world rows exist.
	database.Connect(cfg.DatabaseURL)
	database.Seed(cfg.LobbyRoomName, cfg.LobbyRoomDesc)

	// The shared clock drives every timed effect, on its own goroutine.
	ticker := game.NewTicker()
	ticker.Start(time.Duration(cfg.TickIntervalMS) * time.Millisecond)

	world := mud.NewWorld(cfg, hub.New(), ticker)
	if err := world.LoadRooms(); err != nil {
		log.Fatalf("Failed to load rooms: %v", err)
	}
	if err := world.LoadChannels(); err != nil {
		log.Fatalf("Failed to load channels: %v", err)
	}

	// The telnet face of the server.
	go func() {
		log.Fatal(world.ListenAndServe(cfg.ListenAddr))
	}()

	// The web face: read-mostly status plus admin flag endpoints.
	h := handler.New(world)
	router := gin.Default()

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth/login", handler.LoginUser)

		protected := apiV1.Group("")
		protected.Use(auth.AuthMiddleware())
		{
			protected.GET("/who", h.Who)
			protected.GET("/tables", h.Tables)
			protected.GET("/cards", handler.Cards)
		}

		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminRoutes.POST("/users/:name/freeze", h.FreezeUser)
			adminRoutes.POST("/users/:name/mute", h.MuteUser)
			adminRoutes.POST("/users/:name/ban", h.BanUser)
		}
	}

	log.Printf("HTTP API listening on %s", cfg.HTTPAddr)
	log.Fatal(router.Run(cfg.HTTPAddr))
}
