// Package jobs runs background maintenance tasks.
package jobs

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	store "github.com/tceeservices/connect-africa-go/store"
)

// StartReconciler schedules a job that retries campaign increments for
// donations that were marked success while the campaign update failed. It
// covers the gap where the webhook already acked the provider but the
// bookkeeping write did not land.
func StartReconciler(s store.Store) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@every 5m", func() {
		ReconcileUnappliedDonations(s)
	})
	if err != nil {
		log.Printf("Could not schedule donation reconciler: %v", err)
		return c
	}
	c.Start()
	return c
}

// ReconcileUnappliedDonations applies outstanding campaign increments. Each
// donation is claimed via a compare-and-swap on the campaign_applied flag
// before the increment runs, so the webhook handler and the reconciler can
// never both apply the same donation; a failed increment releases the claim
// for the next run.
func ReconcileUnappliedDonations(s store.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	donations, err := s.ListUnappliedDonations(ctx)
	if err != nil {
		log.Printf("Reconciler: could not list unapplied donations: %v", err)
		return
	}
	if len(donations) == 0 {
		return
	}

	log.Printf("Reconciler: retrying %d unapplied donation(s)", len(donations))

	for _, d := range donations {
		claimed, err := s.ClaimDonationApply(ctx, d.Reference)
		if err != nil {
			log.Printf("Reconciler: could not claim donation %s: %v", d.Reference, err)
			continue
		}
		if !claimed {
			// another worker got there first
			continue
		}

		// replay what the provider settled, not the pledged amount
		amount := d.AmountPaid
		if amount == 0 {
			amount = d.Amount
		}

		err = s.ApplyDonationToCampaign(ctx, d.CampaignID.Hex(), amount)
		if errors.Is(err, store.ErrNotFound) {
			// keep the claim so the orphan stops retrying
			log.Printf("Reconciler: donation %s references missing campaign %s, needs manual follow-up",
				d.Reference, d.CampaignID.Hex())
			continue
		}
		if err != nil {
			log.Printf("Reconciler: campaign update for donation %s failed again: %v", d.Reference, err)
			if relErr := s.ReleaseDonationApply(ctx, d.Reference); relErr != nil {
				log.Printf("Reconciler: could not release donation %s for retry, needs manual follow-up: %v",
					d.Reference, relErr)
			}
		}
	}
}
