package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/tceeservices/connect-africa-go/config"
	models "github.com/tceeservices/connect-africa-go/models"
	payments "github.com/tceeservices/connect-africa-go/payments"
	store "github.com/tceeservices/connect-africa-go/store"
	utils "github.com/tceeservices/connect-africa-go/utils"
)

// webhookEvent is the Monnify event envelope. Only SUCCESSFUL_TRANSACTION is
// reconciled; every other event type is acknowledged and ignored.
type webhookEvent struct {
	EventType string `json:"eventType"`
	EventData struct {
		PaymentReference string  `json:"paymentReference"`
		AmountPaid       float64 `json:"amountPaid"`
	} `json:"eventData"`
}

// ---------------- INITIATE ----------------
func InitiateDonation(cfg *config.Config, s store.Store, gw payments.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			CampaignID string  `json:"campaignId"`
			FirstName  string  `json:"firstName"`
			LastName   string  `json:"lastName"`
			Email      string  `json:"email"`
			Phone      string  `json:"phone"`
			Amount     float64 `json:"amount"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		// validate each field individually so the caller gets a usable message
		switch {
		case input.CampaignID == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "campaignId is required"})
			return
		case input.FirstName == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "firstName is required"})
			return
		case input.LastName == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "lastName is required"})
			return
		case input.Email == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
			return
		case input.Phone == "":
			c.JSON(http.StatusBadRequest, gin.H{"message": "phone is required"})
			return
		case input.Amount <= 0:
			c.JSON(http.StatusBadRequest, gin.H{"message": "amount must be greater than 0"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		campaign, err := s.GetCampaignByID(ctx, input.CampaignID)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Campaign not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load campaign"})
			return
		}

		reference := utils.NewDonationReference()
		donorName := input.FirstName + " " + input.LastName

		session, err := gw.InitTransaction(ctx, payments.InitTransactionRequest{
			Amount:             input.Amount,
			CustomerName:       donorName,
			CustomerEmail:      input.Email,
			PaymentReference:   reference,
			PaymentDescription: "Donation for " + campaign.Title,
			CurrencyCode:       "NGN",
			RedirectURL:        cfg.DonationRedirectURL,
			PaymentMethods:     []string{"CARD", "ACCOUNT_TRANSFER"},
			Metadata: map[string]string{
				"campaignId": input.CampaignID,
				"donorName":  donorName,
				"phone":      input.Phone,
			},
		})
		if err != nil {
			log.Printf("Donation init failed for campaign %s: %v", input.CampaignID, err)
			c.JSON(http.StatusBadGateway, gin.H{"message": "Payment initialization failed"})
			return
		}

		donation := models.Donation{
			ID:         primitive.NewObjectID(),
			CampaignID: campaign.ID,
			Reference:  reference,
			FirstName:  input.FirstName,
			LastName:   input.LastName,
			Email:      input.Email,
			Phone:      input.Phone,
			Amount:     input.Amount,
			Status:     models.DonationPending,
			CreatedAt:  time.Now(),
		}
		if err := s.InsertDonation(ctx, &donation); err != nil {
			// the provider session exists but we lost the local record; the
			// webhook handler acks unknown references, so nothing gets stuck
			log.Printf("Could not persist pending donation %s: %v", reference, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not record donation"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"checkoutUrl": session.CheckoutURL,
			"reference":   reference,
		})
	}
}

// ---------------- WEBHOOK ----------------
//
// Reconciliation contract: the donation status flip is a compare-and-swap, so
// redelivered webhooks are no-ops after the first one lands. Before touching
// campaign totals the handler claims the donation via a second CAS on the
// campaign_applied flag; the claim holder is the only writer allowed to run
// the increment, and a failed increment releases the claim so the reconciler
// job can retry. The increment is therefore applied at most once per
// reference no matter how deliveries and retries interleave.
func MonnifyWebhook(cfg *config.Config, s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawBody, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Could not read body"})
			return
		}

		if !utils.VerifyMonnifySignature(cfg.MonnifySecretKey, rawBody, c.GetHeader("monnify-signature")) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid signature"})
			return
		}

		var event webhookEvent
		if err := json.Unmarshal(rawBody, &event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed payload"})
			return
		}

		if event.EventType != "SUCCESSFUL_TRANSACTION" {
			c.JSON(http.StatusOK, gin.H{"message": "Ignored"})
			return
		}

		reference := event.EventData.PaymentReference
		amountPaid := event.EventData.AmountPaid

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		donation, err := s.GetDonationByReference(ctx, reference)
		if errors.Is(err, store.ErrNotFound) {
			// ack so the provider does not retry-storm over a reference we
			// never issued
			log.Printf("Webhook for unknown donation reference %s", reference)
			c.JSON(http.StatusOK, gin.H{"message": "Donation not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Storage unavailable"})
			return
		}

		marked, err := s.MarkDonationSuccess(ctx, reference, amountPaid, time.Now())
		if err != nil {
			// a non-2xx makes the provider redeliver; the event must not be
			// swallowed while the store is down
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Storage unavailable"})
			return
		}
		if !marked {
			c.JSON(http.StatusOK, gin.H{"message": "Already processed"})
			return
		}

		claimed, err := s.ClaimDonationApply(ctx, reference)
		if err != nil {
			// donation is already success and unclaimed, the reconciler
			// picks it up; the provider still gets its ack
			log.Printf("Could not claim donation %s for campaign update, left for reconciler: %v", reference, err)
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
		if !claimed {
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}

		err = s.ApplyDonationToCampaign(ctx, donation.CampaignID.Hex(), amountPaid)
		switch {
		case errors.Is(err, store.ErrNotFound):
			// keep the claim so the reconciler does not spin on an orphan
			log.Printf("Donation %s references missing campaign %s, needs manual follow-up",
				reference, donation.CampaignID.Hex())
			c.JSON(http.StatusOK, gin.H{"message": "Campaign not found"})
			return
		case err != nil:
			log.Printf("Campaign update for donation %s failed, left for reconciler: %v", reference, err)
			if relErr := s.ReleaseDonationApply(ctx, reference); relErr != nil {
				// claim is stuck: increment was not applied and will not be
				// retried automatically
				log.Printf("Could not release donation %s for retry, needs manual follow-up: %v", reference, relErr)
			}
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}

		utils.SendEmailAsync(donation.Email, donation.FirstName,
			"Thank you for your donation",
			fmt.Sprintf("<p>Dear %s,</p><p>We received your donation of %.2f NGN. Reference: %s.</p>",
				donation.FirstName, amountPaid, reference))

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// donationListFilter builds the Mongo filter from the list query params.
// Params use the same camelCase casing as the rest of the JSON API.
func donationListFilter(c *gin.Context) bson.M {
	filter := bson.M{}
	if campaignID := c.Query("campaignId"); campaignID != "" {
		if oid, err := primitive.ObjectIDFromHex(campaignID); err == nil {
			filter["campaign_id"] = oid
		}
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	return filter
}

// ---------------- LIST (admin) ----------------
func ListDonations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.MongoClient.Database(cfg.DBName).Collection("donations")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := col.Find(ctx, donationListFilter(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not fetch donations"})
			return
		}

		var donations []models.Donation
		if err := cursor.All(ctx, &donations); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not decode donations"})
			return
		}

		if len(donations) == 0 {
			c.JSON(http.StatusOK, []models.Donation{})
			return
		}

		// --- Pick the most recently created donation for cache validators ---
		latest := donations[0]
		for _, d := range donations {
			if d.CreatedAt.After(latest.CreatedAt) {
				latest = d
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.CreatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.CreatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, donations)
	}
}
