package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campaign statuses
const (
	CampaignInProgress = "inprogress"
	CampaignCompleted  = "completed"
	CampaignInactive   = "inactive"
)

// CampaignCategories lists the allowed campaign categories. "Emergency" is
// exclusive: at most one Emergency campaign is in progress at a time.
var CampaignCategories = []string{
	"Education",
	"Community",
	"Elderly",
	"Empowerment",
	"Children",
	"Healthcare",
	"Infrastructure",
	"Events",
	"Others",
	"Food",
	"Emergency",
}

type Campaign struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Category      string             `bson:"category" json:"category"`
	Priority      bool               `bson:"priority" json:"priority"`
	Status        string             `bson:"status" json:"status"` // inprogress, completed, inactive
	Amount        float64            `bson:"amount" json:"amount"`
	DonatedAmount float64            `bson:"donated_amount" json:"donated_amount"`
	Supporters    int64              `bson:"supporters" json:"supporters"`
	StartDate     time.Time          `bson:"start_date" json:"start_date"`
	EndDate       time.Time          `bson:"end_date" json:"end_date"`
	ImageURL      string             `bson:"image_url" json:"image_url"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsValidCampaignCategory reports whether cat is one of CampaignCategories.
func IsValidCampaignCategory(cat string) bool {
	for _, c := range CampaignCategories {
		if c == cat {
			return true
		}
	}
	return false
}
