package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/tceeservices/connect-africa-go/config"
	models "github.com/tceeservices/connect-africa-go/models"
	utils "github.com/tceeservices/connect-africa-go/utils"
)

// ---------------- CREATE ----------------
func CreateGalleryItem(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title           string `json:"title"`
			Category        string `json:"category"`
			Type            string `json:"type"` // "image" | "video"
			ImageBase64     string `json:"imageBase64"`
			VideoURL        string `json:"videoUrl"`
			ThumbnailBase64 string `json:"thumbnailBase64"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		switch {
		case input.Title == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
			return
		case !models.IsValidGalleryCategory(input.Category):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
			return
		case input.Type != models.MediaImage && input.Type != models.MediaVideo:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid media type"})
			return
		case input.Type == models.MediaImage && input.ImageBase64 == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "Image is required"})
			return
		case input.Type == models.MediaVideo && input.VideoURL == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "Video URL is required"})
			return
		}

		item := models.GalleryItem{
			ID:        primitive.NewObjectID(),
			Title:     input.Title,
			Category:  input.Category,
			Type:      input.Type,
			VideoURL:  input.VideoURL,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if input.Type == models.MediaImage {
			imageURL, err := utils.UploadBase64ToCloudinary(input.ImageBase64, "gallary")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "image upload failed", "details": err.Error()})
				return
			}
			item.ImageURL = imageURL
		} else if input.ThumbnailBase64 != "" {
			thumbURL, err := utils.UploadBase64ToCloudinary(input.ThumbnailBase64, "gallary")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "thumbnail upload failed", "details": err.Error()})
				return
			}
			item.ThumbnailURL = thumbURL
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("gallary")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create gallery item"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Media created",
			"media":   item,
		})
	}
}

// ---------------- LIST ----------------
func ListGallery(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("gallary")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}
		if mediaType := c.Query("type"); mediaType != "" {
			filter["type"] = mediaType
		}

		cursor, err := col.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch gallery"})
			return
		}

		var items []models.GalleryItem
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not decode gallery"})
			return
		}

		if len(items) == 0 {
			c.JSON(http.StatusOK, []models.GalleryItem{})
			return
		}

		latest := items[0]
		for _, item := range items {
			if item.UpdatedAt.After(latest.UpdatedAt) {
				latest = item
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, items)
	}
}

// ---------------- UPDATE ----------------
func UpdateGalleryItem(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid media id"})
			return
		}

		var input struct {
			Title           string `json:"title"`
			Category        string `json:"category"`
			ImageBase64     string `json:"imageBase64"`
			VideoURL        string `json:"videoUrl"`
			ThumbnailBase64 string `json:"thumbnailBase64"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Category != "" {
			if !models.IsValidGalleryCategory(input.Category) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
				return
			}
			update["category"] = input.Category
		}
		if input.VideoURL != "" {
			update["video_url"] = input.VideoURL
		}
		if strings.HasPrefix(input.ImageBase64, "data:") {
			imageURL, err := utils.UploadBase64ToCloudinary(input.ImageBase64, "gallary")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "image upload failed", "details": err.Error()})
				return
			}
			update["image_url"] = imageURL
		}
		if strings.HasPrefix(input.ThumbnailBase64, "data:") {
			thumbURL, err := utils.UploadBase64ToCloudinary(input.ThumbnailBase64, "gallary")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "thumbnail upload failed", "details": err.Error()})
				return
			}
			update["thumbnail_url"] = thumbURL
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "no fields to update"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("gallary")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update gallery item"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Media not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Media updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
func DeleteGalleryItem(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid media id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("gallary")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.GalleryItem
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Media not found"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete media"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Media not found"})
			return
		}

		for _, assetURL := range []string{existing.ImageURL, existing.ThumbnailURL} {
			if assetURL != "" {
				utils.DeleteFromCloudinary(assetURL)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "media deleted", "id": oid.Hex()})
	}
}
