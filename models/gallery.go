package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gallery media types
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// GalleryCategories lists the allowed gallery categories.
var GalleryCategories = []string{
	"Outreach",
	"Team",
	"Community",
	"Elderly",
	"Empowerment",
	"Children",
	"Education",
	"Healthcare",
	"Infrastructure",
	"Events",
	"Others",
}

type GalleryItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Category     string             `bson:"category" json:"category"`
	Type         string             `bson:"type" json:"type"` // image, video
	ImageURL     string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	VideoURL     string             `bson:"video_url,omitempty" json:"video_url,omitempty"`
	ThumbnailURL string             `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsValidGalleryCategory reports whether cat is one of GalleryCategories.
func IsValidGalleryCategory(cat string) bool {
	for _, c := range GalleryCategories {
		if c == cat {
			return true
		}
	}
	return false
}
