package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation statuses. The only allowed transition is pending -> success,
// applied exactly once per reference.
const (
	DonationPending = "pending"
	DonationSuccess = "success"
)

type Donation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampaignID primitive.ObjectID `bson:"campaign_id" json:"campaign_id"`
	Reference  string             `bson:"reference" json:"reference"`
	FirstName  string             `bson:"first_name" json:"first_name"`
	LastName   string             `bson:"last_name" json:"last_name"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone" json:"phone"`
	Amount     float64            `bson:"amount" json:"amount"`
	Status     string             `bson:"status" json:"status"` // pending, success

	// AmountPaid is the amount the provider actually settled, recorded when
	// the webhook confirms the payment. It can differ from the pledged
	// Amount (partial payment, fees) and is what campaign totals absorb.
	AmountPaid float64 `bson:"amount_paid,omitempty" json:"amount_paid,omitempty"`

	// CampaignApplied tracks whether the campaign totals have absorbed this
	// donation. A success donation with campaign_applied=false is picked up
	// by the reconciler job.
	CampaignApplied bool `bson:"campaign_applied" json:"-"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	PaidAt    *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}
