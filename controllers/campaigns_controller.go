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
func CreateCampaign(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Amount      float64 `json:"amount"`
			Category    string  `json:"category"`
			StartDate   string  `json:"startDate"`
			EndDate     string  `json:"endDate"`
			ImageBase64 string  `json:"imageBase64"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		switch {
		case input.Title == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
			return
		case input.Description == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "Description is required"})
			return
		case input.Amount <= 0:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Amount is required"})
			return
		case !models.IsValidCampaignCategory(strings.TrimSpace(input.Category)):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
			return
		case input.StartDate == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "Start date is required"})
			return
		case input.EndDate == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "End date is required"})
			return
		case input.ImageBase64 == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "Image is required"})
			return
		}

		startDate, err := parseDate(input.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid start date format, use RFC3339 or YYYY-MM-DD"})
			return
		}
		endDate, err := parseDate(input.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid end date format, use RFC3339 or YYYY-MM-DD"})
			return
		}

		imageURL, err := utils.UploadBase64ToCloudinary(input.ImageBase64, "campaigns")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "image upload failed", "details": err.Error()})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("campaigns")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		category := strings.TrimSpace(input.Category)

		// at most one Emergency campaign runs at a time
		if category == "Emergency" {
			_, err := col.UpdateMany(ctx,
				bson.M{"category": "Emergency", "status": models.CampaignInProgress},
				bson.M{"$set": bson.M{"status": models.CampaignInactive, "updated_at": time.Now()}},
			)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not deactivate previous emergency campaign"})
				return
			}
		}

		now := time.Now()
		campaign := models.Campaign{
			ID:            primitive.NewObjectID(),
			Title:         input.Title,
			Description:   input.Description,
			Category:      category,
			Priority:      category == "Emergency",
			Status:        models.CampaignInProgress,
			Amount:        input.Amount,
			DonatedAmount: 0,
			Supporters:    0,
			StartDate:     startDate,
			EndDate:       endDate,
			ImageURL:      imageURL,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if _, err := col.InsertOne(ctx, campaign); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create campaign"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":  "Campaign created!",
			"campaign": campaign,
		})
	}
}

// ---------------- LIST ----------------
func ListCampaigns(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("campaigns")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Build filter ---
		filter := bson.M{}
		if c.Query("status") == "active" {
			now := time.Now()
			filter = bson.M{
				"start_date": bson.M{"$lte": now},
				"end_date":   bson.M{"$gte": now},
			}
		}

		cursor, err := col.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch campaigns"})
			return
		}

		var campaigns []models.Campaign
		if err := cursor.All(ctx, &campaigns); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not decode campaigns"})
			return
		}

		if len(campaigns) == 0 {
			c.JSON(http.StatusOK, []models.Campaign{})
			return
		}

		// --- Pick the most recently updated campaign ---
		latest := campaigns[0]
		for _, cp := range campaigns {
			if cp.UpdatedAt.After(latest.UpdatedAt) {
				latest = cp
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, campaigns)
	}
}

// ---------------- EMERGENCY CHECK ----------------
func EmergencyCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("campaigns")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		count, err := col.CountDocuments(ctx, bson.M{
			"category": "Emergency",
			"status":   models.CampaignInProgress,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not check emergency campaigns"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"exists": count > 0})
	}
}

// ---------------- UPDATE ----------------
func UpdateCampaign(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid campaign id"})
			return
		}

		var input struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Amount      float64 `json:"amount"`
			Category    string  `json:"category"`
			StartDate   string  `json:"startDate"`
			EndDate     string  `json:"endDate"`
			ImageBase64 string  `json:"imageBase64"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		// administrative edit never touches donated_amount, supporters, or
		// status; those belong to webhook reconciliation
		update := bson.M{"updated_at": time.Now()}
		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Description != "" {
			update["description"] = input.Description
		}
		if input.Amount > 0 {
			update["amount"] = input.Amount
		}
		if input.Category != "" {
			if !models.IsValidCampaignCategory(strings.TrimSpace(input.Category)) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
				return
			}
			update["category"] = strings.TrimSpace(input.Category)
		}
		if input.StartDate != "" {
			startDate, err := parseDate(input.StartDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid start date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			update["start_date"] = startDate
		}
		if input.EndDate != "" {
			endDate, err := parseDate(input.EndDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid end date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			update["end_date"] = endDate
		}
		if input.ImageBase64 != "" {
			imageURL := input.ImageBase64
			// only re-upload when the dashboard sends a fresh data URI; an
			// unchanged image comes back as the hosted URL
			if strings.HasPrefix(input.ImageBase64, "data:") {
				imageURL, err = utils.UploadBase64ToCloudinary(input.ImageBase64, "campaigns")
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"message": "image upload failed", "details": err.Error()})
					return
				}
			}
			update["image_url"] = imageURL
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "no fields to update"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("campaigns")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update campaign"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Campaign not found"})
			return
		}

		var updated models.Campaign
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve updated campaign"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Campaign updated!",
			"campaign": updated,
		})
	}
}

// ---------------- DELETE ----------------
func DeleteCampaign(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid campaign id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("campaigns")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Campaign
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Campaign not found"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete campaign"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Campaign not found"})
			return
		}

		if existing.ImageURL != "" {
			if err := utils.DeleteFromCloudinary(existing.ImageURL); err != nil {
				// the record is gone either way; leaking an asset is not a
				// request failure
				c.JSON(http.StatusOK, gin.H{"message": "campaign deleted, image cleanup failed", "id": oid.Hex()})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "campaign deleted", "id": oid.Hex()})
	}
}

// parseDate accepts RFC3339 or a handful of date-only fallbacks.
func parseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return parsed, nil
	}
	layouts := []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}
	for _, layout := range layouts {
		if t, e := time.Parse(layout, value); e == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
