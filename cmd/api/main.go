package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/HashedAlex/tweet-post/db"
	"github.com/HashedAlex/tweet-post/internal/handler"
	"github.com/HashedAlex/tweet-post/internal/repository"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	repo := repository.NewPostedRepository(db.DB)
	if err := repo.Init(); err != nil {
		log.Fatalf("error initializing posting history: %v", err)
	}

	historyHandler := handler.NewHistoryHandler(repo)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/posts", historyHandler.GetPosts)
	r.GET("/health", historyHandler.GetHealth)

	bindAddr := os.Getenv("API_BIND_ADDR")
	if bindAddr == "" {
		bindAddr = ":8080"
	}

	err = r.Run(bindAddr)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
