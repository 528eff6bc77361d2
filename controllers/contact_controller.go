package controllers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/tceeservices/connect-africa-go/config"
	models "github.com/tceeservices/connect-africa-go/models"
	utils "github.com/tceeservices/connect-africa-go/utils"
)

// ---------------- CONTACT ----------------
func SubmitContact(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name    string `json:"name"`
			Email   string `json:"email"`
			Phone   string `json:"phone"`
			Subject string `json:"subject"`
			Message string `json:"message"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON payload"})
			return
		}

		if input.Name == "" || input.Email == "" || input.Subject == "" || input.Message == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Missing required fields"})
			return
		}

		message := models.ContactMessage{
			ID:        primitive.NewObjectID(),
			Name:      input.Name,
			Email:     input.Email,
			Phone:     input.Phone,
			Subject:   input.Subject,
			Message:   input.Message,
			CreatedAt: time.Now(),
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("contacts")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, message); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save message"})
			return
		}

		// notification email must not break the request
		if adminEmail := os.Getenv("CONTACT_NOTIFY_EMAIL"); adminEmail != "" {
			utils.SendEmailAsync(adminEmail, "Admin",
				"Contact Us - "+input.Subject,
				fmt.Sprintf("<p><strong>Name:</strong> %s</p><p><strong>Email:</strong> %s</p><p><strong>Phone:</strong> %s</p><p><strong>Message:</strong> %s</p>",
					input.Name, input.Email, input.Phone, input.Message))
		}

		c.JSON(http.StatusOK, gin.H{"message": "Message saved successfully"})
	}
}

// ---------------- SUBSCRIBE ----------------
func Subscribe(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))
		if email == "" || !strings.Contains(email, "@") {
			c.JSON(http.StatusBadRequest, gin.H{"message": "A valid email is required"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("subscribers")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// upsert so repeat signups stay idempotent against the unique index
		_, err := col.UpdateOne(ctx,
			bson.M{"email": email},
			bson.M{"$setOnInsert": bson.M{"email": email, "created_at": time.Now()}},
			options.Update().SetUpsert(true),
		)
		if err != nil && !mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not subscribe"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Subscribed"})
	}
}

// ---------------- LIST SUBSCRIBERS (admin) ----------------
func ListSubscribers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("subscribers")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := col.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch subscribers"})
			return
		}

		var subscribers []models.Subscriber
		if err := cursor.All(ctx, &subscribers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not decode subscribers"})
			return
		}

		if subscribers == nil {
			subscribers = []models.Subscriber{}
		}

		c.JSON(http.StatusOK, subscribers)
	}
}
