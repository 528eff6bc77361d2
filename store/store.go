// Package store holds the data-access helpers the donation flow depends on.
// The interface exists so the initiation and webhook controllers can be tested
// against fakes; the Mongo implementation lives in mongo.go.
package store

import (
	"context"
	"errors"
	"time"

	models "github.com/tceeservices/connect-africa-go/models"
)

// ErrNotFound is returned when a campaign or donation does not exist.
var ErrNotFound = errors.New("store: not found")

type Store interface {
	GetCampaignByID(ctx context.Context, id string) (*models.Campaign, error)

	InsertDonation(ctx context.Context, d *models.Donation) error
	GetDonationByReference(ctx context.Context, reference string) (*models.Donation, error)

	// MarkDonationSuccess flips a donation from pending to success, setting
	// paid_at and the settled amount. It reports whether the transition
	// actually applied: false means the donation was already success (or
	// missing), which is the idempotency signal for redelivered webhooks.
	MarkDonationSuccess(ctx context.Context, reference string, amountPaid float64, paidAt time.Time) (bool, error)

	// ApplyDonationToCampaign atomically adds amount to the campaign's
	// donated total, bumps the supporter count, and recomputes the campaign
	// status (completed once donated_amount >= amount). Returns ErrNotFound
	// if the campaign is missing.
	ApplyDonationToCampaign(ctx context.Context, campaignID string, amount float64) error

	// ClaimDonationApply flips campaign_applied false -> true as a
	// compare-and-swap. The holder of a successful claim is the only caller
	// allowed to run ApplyDonationToCampaign for the donation, so the
	// increment is applied at most once even when the webhook handler and
	// the reconciler race.
	ClaimDonationApply(ctx context.Context, reference string) (bool, error)

	// ReleaseDonationApply returns a claimed donation to the retry pool
	// after its campaign increment failed.
	ReleaseDonationApply(ctx context.Context, reference string) error

	// ListUnappliedDonations returns success donations whose campaign update
	// has not landed yet.
	ListUnappliedDonations(ctx context.Context) ([]models.Donation, error)
}
