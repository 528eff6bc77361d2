package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	config "github.com/tceeservices/connect-africa-go/config"
	jobs "github.com/tceeservices/connect-africa-go/jobs"
	payments "github.com/tceeservices/connect-africa-go/payments"
	routes "github.com/tceeservices/connect-africa-go/routes"
	store "github.com/tceeservices/connect-africa-go/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading config from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	s := store.NewMongoStore(cfg.MongoClient, cfg.DBName)
	gateway := payments.NewMonnifyClient(
		cfg.MonnifyBaseURL,
		cfg.MonnifyAPIKey,
		cfg.MonnifySecretKey,
		cfg.MonnifyContractCode,
	)

	reconciler := jobs.StartReconciler(s)
	defer reconciler.Stop()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "If-None-Match"},
		ExposeHeaders:    []string{"ETag", "Last-Modified"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, cfg, s, gateway)

	log.Printf("Listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
