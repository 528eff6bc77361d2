package controllers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
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

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug turns a post title into its URL slug.
func GenerateSlug(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// ---------------- CREATE ----------------
func CreateBlog(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title       string   `json:"title"`
			Excerpt     string   `json:"excerpt"`
			Content     string   `json:"content"`
			Author      string   `json:"author"`
			ReadTime    string   `json:"readTime"`
			Category    string   `json:"category"`
			ImageBase64 string   `json:"imageBase64"`
			Tags        []string `json:"tags"`
			Featured    bool     `json:"featured"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		switch {
		case input.Title == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
			return
		case len(input.Title) > models.BlogTitleMax:
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Title must be %d characters or fewer", models.BlogTitleMax)})
			return
		case input.Excerpt == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "Excerpt is required"})
			return
		case len(input.Excerpt) > models.BlogExcerptMax:
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Excerpt must be %d characters or fewer", models.BlogExcerptMax)})
			return
		case input.Content == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "Content is required"})
			return
		case input.ImageBase64 == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "Image is required"})
			return
		case !models.IsValidBlogCategory(input.Category):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category. Allowed: " + strings.Join(models.BlogCategories, ", ")})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("blogs")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		slug := GenerateSlug(input.Title)

		// prevent duplicate slugs
		if err := col.FindOne(ctx, bson.M{"slug": slug}).Err(); err == nil {
			c.JSON(http.StatusConflict, gin.H{"message": "Blog with same title already exists"})
			return
		} else if err != mongo.ErrNoDocuments {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not check slug"})
			return
		}

		imageURL, err := utils.UploadBase64ToCloudinary(input.ImageBase64, "blogs")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "image upload failed", "details": err.Error()})
			return
		}

		// only one featured post at a time
		if input.Featured {
			if _, err := col.UpdateMany(ctx, bson.M{"featured": true}, bson.M{"$set": bson.M{"featured": false}}); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not unset featured post"})
				return
			}
		}

		if input.Author == "" {
			input.Author = "Admin"
		}
		if input.ReadTime == "" {
			input.ReadTime = "3 min read"
		}
		if input.Tags == nil {
			input.Tags = []string{}
		}

		now := time.Now()
		blog := models.Blog{
			ID:        primitive.NewObjectID(),
			Slug:      slug,
			Title:     input.Title,
			Excerpt:   input.Excerpt,
			Content:   input.Content,
			ImageURL:  imageURL,
			Author:    input.Author,
			ReadTime:  input.ReadTime,
			Category:  input.Category,
			Tags:      input.Tags,
			Featured:  input.Featured,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := col.InsertOne(ctx, blog); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create blog"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Blog created successfully",
			"blog":    blog,
		})
	}
}

// ---------------- LIST ----------------
func ListBlogs(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("blogs")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}
		if c.Query("featured") == "true" {
			filter["featured"] = true
		}

		cursor, err := col.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch blogs"})
			return
		}

		var blogs []models.Blog
		if err := cursor.All(ctx, &blogs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not decode blogs"})
			return
		}

		if len(blogs) == 0 {
			c.JSON(http.StatusOK, []models.Blog{})
			return
		}

		latest := blogs[0]
		for _, b := range blogs {
			if b.UpdatedAt.After(latest.UpdatedAt) {
				latest = b
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, blogs)
	}
}

// ---------------- GET BY SLUG ----------------
func GetBlogBySlug(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		var blog models.Blog
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := cfg.MongoClient.Database(cfg.DBName).
			Collection("blogs").
			FindOne(ctx, bson.M{"slug": slug}).
			Decode(&blog)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Blog not found"})
			return
		}

		etag := utils.GenerateETag(blog.ID, blog.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, blog)
	}
}

// ---------------- UPDATE ----------------
func UpdateBlog(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid blog id"})
			return
		}

		var input struct {
			Title       string   `json:"title"`
			Excerpt     string   `json:"excerpt"`
			Content     string   `json:"content"`
			Author      string   `json:"author"`
			ReadTime    string   `json:"readTime"`
			Category    string   `json:"category"`
			ImageBase64 string   `json:"imageBase64"`
			Tags        []string `json:"tags"`
			Featured    *bool    `json:"featured"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("blogs")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		update := bson.M{"updated_at": time.Now()}
		if input.Title != "" {
			if len(input.Title) > models.BlogTitleMax {
				c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Title must be %d characters or fewer", models.BlogTitleMax)})
				return
			}
			update["title"] = input.Title
			update["slug"] = GenerateSlug(input.Title)
		}
		if input.Excerpt != "" {
			if len(input.Excerpt) > models.BlogExcerptMax {
				c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Excerpt must be %d characters or fewer", models.BlogExcerptMax)})
				return
			}
			update["excerpt"] = input.Excerpt
		}
		if input.Content != "" {
			update["content"] = input.Content
		}
		if input.Author != "" {
			update["author"] = input.Author
		}
		if input.ReadTime != "" {
			update["read_time"] = input.ReadTime
		}
		if input.Category != "" {
			if !models.IsValidBlogCategory(input.Category) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
				return
			}
			update["category"] = input.Category
		}
		if input.Tags != nil {
			update["tags"] = input.Tags
		}
		if input.Featured != nil {
			if *input.Featured {
				if _, err := col.UpdateMany(ctx, bson.M{"featured": true}, bson.M{"$set": bson.M{"featured": false}}); err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not unset featured post"})
					return
				}
			}
			update["featured"] = *input.Featured
		}
		if input.ImageBase64 != "" {
			imageURL := input.ImageBase64
			if strings.HasPrefix(input.ImageBase64, "data:") {
				imageURL, err = utils.UploadBase64ToCloudinary(input.ImageBase64, "blogs")
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

		res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update blog"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Blog not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Blog updated", "id": oid.Hex()})
	}
}

// ---------------- UNSET FEATURED ----------------
func UnsetFeaturedBlogs(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("blogs")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.UpdateMany(ctx, bson.M{"featured": true}, bson.M{"$set": bson.M{"featured": false}}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not unset featured blogs"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Unset featured blog(s)"})
	}
}

// ---------------- DELETE ----------------
func DeleteBlog(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid blog id"})
			return
		}

		col := cfg.MongoClient.Database(cfg.DBName).Collection("blogs")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Blog
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Blog not found"})
			return
		}

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete blog"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Blog not found"})
			return
		}

		if existing.ImageURL != "" {
			utils.DeleteFromCloudinary(existing.ImageURL)
		}

		c.JSON(http.StatusOK, gin.H{"message": "blog deleted", "id": oid.Hex()})
	}
}
