package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/tceeservices/connect-africa-go/config"
	models "github.com/tceeservices/connect-africa-go/models"
)

const siteSettingsKey = "site"

// ---------------- GET ----------------
func GetSettings(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("settings")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var settings models.SiteSettings
		err := col.FindOne(ctx, bson.M{"_id": siteSettingsKey}).Decode(&settings)
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusOK, models.SiteSettings{Key: siteSettingsKey})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load settings"})
			return
		}

		c.JSON(http.StatusOK, settings)
	}
}

// ---------------- UPDATE ----------------
func UpdateSettings(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.SiteSettings
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		input.Key = siteSettingsKey
		input.UpdatedAt = time.Now()

		col := cfg.MongoClient.Database(cfg.DBName).Collection("settings")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := col.ReplaceOne(ctx,
			bson.M{"_id": siteSettingsKey},
			input,
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not save settings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Settings saved", "settings": input})
	}
}
