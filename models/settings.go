package models

import "time"

// SiteSettings is a single document keyed by "site" in the settings collection.
type SiteSettings struct {
	Key          string    `bson:"_id" json:"-"`
	SiteName     string    `bson:"site_name" json:"site_name"`
	Tagline      string    `bson:"tagline,omitempty" json:"tagline,omitempty"`
	ContactEmail string    `bson:"contact_email" json:"contact_email"`
	ContactPhone string    `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Address      string    `bson:"address,omitempty" json:"address,omitempty"`
	FacebookURL  string    `bson:"facebook_url,omitempty" json:"facebook_url,omitempty"`
	TwitterURL   string    `bson:"twitter_url,omitempty" json:"twitter_url,omitempty"`
	InstagramURL string    `bson:"instagram_url,omitempty" json:"instagram_url,omitempty"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
