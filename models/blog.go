package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogCategories lists the allowed blog post categories.
var BlogCategories = []string{
	"News",
	"Events",
	"Updates",
	"Projects",
	"Team",
	"Impact",
	"Stories",
}

// Title/excerpt length limits enforced on create and edit.
const (
	BlogTitleMax   = 100
	BlogExcerptMax = 300
)

type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug      string             `bson:"slug" json:"slug"`
	Title     string             `bson:"title" json:"title"`
	Excerpt   string             `bson:"excerpt" json:"excerpt"`
	Content   string             `bson:"content" json:"content"`
	ImageURL  string             `bson:"image_url" json:"image_url"`
	Author    string             `bson:"author" json:"author"`
	ReadTime  string             `bson:"read_time" json:"read_time"`
	Category  string             `bson:"category" json:"category"`
	Tags      []string           `bson:"tags" json:"tags"`
	Featured  bool               `bson:"featured" json:"featured"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsValidBlogCategory reports whether cat is one of BlogCategories.
func IsValidBlogCategory(cat string) bool {
	for _, c := range BlogCategories {
		if c == cat {
			return true
		}
	}
	return false
}
