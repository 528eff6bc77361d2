package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/tceeservices/connect-africa-go/models"
)

type MongoStore struct {
	client *mongo.Client
	dbName string
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{client: client, dbName: dbName}
}

func (s *MongoStore) campaigns() *mongo.Collection {
	return s.client.Database(s.dbName).Collection("campaigns")
}

func (s *MongoStore) donations() *mongo.Collection {
	return s.client.Database(s.dbName).Collection("donations")
}

func (s *MongoStore) GetCampaignByID(ctx context.Context, id string) (*models.Campaign, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var campaign models.Campaign
	err = s.campaigns().FindOne(ctx, bson.M{"_id": oid}).Decode(&campaign)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (s *MongoStore) InsertDonation(ctx context.Context, d *models.Donation) error {
	_, err := s.donations().InsertOne(ctx, d)
	return err
}

func (s *MongoStore) GetDonationByReference(ctx context.Context, reference string) (*models.Donation, error) {
	var donation models.Donation
	err := s.donations().FindOne(ctx, bson.M{"reference": reference}).Decode(&donation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// MarkDonationSuccess is a compare-and-swap on the status field: the filter
// only matches while the donation is still pending, so concurrent redeliveries
// of the same webhook race for a single modified document.
func (s *MongoStore) MarkDonationSuccess(ctx context.Context, reference string, amountPaid float64, paidAt time.Time) (bool, error) {
	res, err := s.donations().UpdateOne(ctx,
		bson.M{"reference": reference, "status": models.DonationPending},
		bson.M{"$set": bson.M{
			"status":           models.DonationSuccess,
			"amount_paid":      amountPaid,
			"paid_at":          paidAt,
			"campaign_applied": false,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// ApplyDonationToCampaign uses a pipeline update so the increment and the
// status recomputation happen in one atomic operation. Concurrent donations to
// the same campaign interleave as independent increments, never as a
// read-modify-write.
func (s *MongoStore) ApplyDonationToCampaign(ctx context.Context, campaignID string, amount float64) error {
	oid, err := primitive.ObjectIDFromHex(campaignID)
	if err != nil {
		return ErrNotFound
	}

	newTotal := bson.M{"$add": bson.A{"$donated_amount", amount}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"donated_amount": newTotal,
			"supporters":     bson.M{"$add": bson.A{"$supporters", 1}},
			"status": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{newTotal, "$amount"}},
				models.CampaignCompleted,
				models.CampaignInProgress,
			}},
			"updated_at": time.Now(),
		}}},
	}

	res, err := s.campaigns().UpdateOne(ctx, bson.M{"_id": oid}, pipeline)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimDonationApply is the same compare-and-swap shape as
// MarkDonationSuccess: only one caller can move the flag from false to true.
func (s *MongoStore) ClaimDonationApply(ctx context.Context, reference string) (bool, error) {
	res, err := s.donations().UpdateOne(ctx,
		bson.M{
			"reference":        reference,
			"status":           models.DonationSuccess,
			"campaign_applied": false,
		},
		bson.M{"$set": bson.M{"campaign_applied": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (s *MongoStore) ReleaseDonationApply(ctx context.Context, reference string) error {
	_, err := s.donations().UpdateOne(ctx,
		bson.M{"reference": reference},
		bson.M{"$set": bson.M{"campaign_applied": false}},
	)
	return err
}

func (s *MongoStore) ListUnappliedDonations(ctx context.Context) ([]models.Donation, error) {
	cursor, err := s.donations().Find(ctx, bson.M{
		"status":           models.DonationSuccess,
		"campaign_applied": false,
	})
	if err != nil {
		return nil, err
	}

	var donations []models.Donation
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}
