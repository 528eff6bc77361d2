package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Config struct {
	MongoClient *mongo.Client
	DBName      string

	Port           string
	JWTSecret      string
	AllowedOrigins []string

	// Monnify payment provider
	MonnifyBaseURL      string
	MonnifyAPIKey       string
	MonnifySecretKey    string
	MonnifyContractCode string
	DonationRedirectURL string
}

// Load reads configuration from the environment and connects to MongoDB.
func Load() (*Config, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "connect_africa"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping error: %v", err)
	}

	cfg := &Config{
		MongoClient:         client,
		DBName:              dbName,
		Port:                getEnv("PORT", "8080"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AllowedOrigins:      splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
		MonnifyBaseURL:      os.Getenv("MONNIFY_BASE_URL"),
		MonnifyAPIKey:       os.Getenv("MONNIFY_API_KEY"),
		MonnifySecretKey:    os.Getenv("MONNIFY_SECRET_KEY"),
		MonnifyContractCode: os.Getenv("MONNIFY_CONTRACT_CODE"),
		DonationRedirectURL: os.Getenv("DONATION_REDIRECT_URL"),
	}

	if cfg.JWTSecret == "" {
		log.Println("JWT_SECRET is not set, admin endpoints will reject all tokens")
	}

	if err := ensureIndexes(client, dbName); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureIndexes creates the unique index on donations.reference. The reference
// is the idempotency key for webhook reconciliation, so duplicates must be
// rejected at the storage layer.
func ensureIndexes(client *mongo.Client, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	donations := client.Database(dbName).Collection("donations")
	_, err := donations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "reference", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("could not create donations.reference index: %v", err)
	}

	subscribers := client.Database(dbName).Collection("subscribers")
	_, err = subscribers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("could not create subscribers.email index: %v", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return []string{"http://localhost:3000"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
