package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/tceeservices/connect-africa-go/config"
	jobs "github.com/tceeservices/connect-africa-go/jobs"
	models "github.com/tceeservices/connect-africa-go/models"
	payments "github.com/tceeservices/connect-africa-go/payments"
	store "github.com/tceeservices/connect-africa-go/store"
	utils "github.com/tceeservices/connect-africa-go/utils"
)

const testWebhookSecret = "test-secret"

// fakeStore is an in-memory Store with the same atomicity guarantees the
// Mongo implementation gets from conditional and pipeline updates.
type fakeStore struct {
	mu        sync.Mutex
	campaigns map[string]*models.Campaign
	donations map[string]*models.Donation // keyed by reference

	failMarkSuccess  bool
	failClaim        bool
	failApply        bool
	insertCalls      int
	applyCalls       int
	markSuccessCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		campaigns: make(map[string]*models.Campaign),
		donations: make(map[string]*models.Donation),
	}
}

func (f *fakeStore) addCampaign(goal, donated float64) *models.Campaign {
	f.mu.Lock()
	defer f.mu.Unlock()
	campaign := &models.Campaign{
		ID:            primitive.NewObjectID(),
		Title:         "Clean Water",
		Status:        models.CampaignInProgress,
		Amount:        goal,
		DonatedAmount: donated,
	}
	f.campaigns[campaign.ID.Hex()] = campaign
	return campaign
}

func (f *fakeStore) addPendingDonation(campaignID primitive.ObjectID, reference string, amount float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.donations[reference] = &models.Donation{
		ID:         primitive.NewObjectID(),
		CampaignID: campaignID,
		Reference:  reference,
		FirstName:  "Ada",
		LastName:   "Obi",
		Email:      "ada@example.com",
		Amount:     amount,
		Status:     models.DonationPending,
		CreatedAt:  time.Now(),
	}
}

func (f *fakeStore) GetCampaignByID(_ context.Context, id string) (*models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.campaigns[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) InsertDonation(_ context.Context, d *models.Donation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if _, exists := f.donations[d.Reference]; exists {
		return errors.New("duplicate reference")
	}
	copied := *d
	f.donations[d.Reference] = &copied
	return nil
}

func (f *fakeStore) GetDonationByReference(_ context.Context, reference string) (*models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.donations[reference]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) MarkDonationSuccess(_ context.Context, reference string, amountPaid float64, paidAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markSuccessCalls++
	if f.failMarkSuccess {
		return false, errors.New("store down")
	}
	d, ok := f.donations[reference]
	if !ok || d.Status != models.DonationPending {
		return false, nil
	}
	d.Status = models.DonationSuccess
	d.AmountPaid = amountPaid
	d.PaidAt = &paidAt
	d.CampaignApplied = false
	return true, nil
}

func (f *fakeStore) ApplyDonationToCampaign(_ context.Context, campaignID string, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++
	if f.failApply {
		return errors.New("store down")
	}
	c, ok := f.campaigns[campaignID]
	if !ok {
		return store.ErrNotFound
	}
	c.DonatedAmount += amount
	c.Supporters++
	if c.DonatedAmount >= c.Amount {
		c.Status = models.CampaignCompleted
	} else {
		c.Status = models.CampaignInProgress
	}
	return nil
}

func (f *fakeStore) ClaimDonationApply(_ context.Context, reference string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClaim {
		return false, errors.New("store down")
	}
	d, ok := f.donations[reference]
	if !ok || d.Status != models.DonationSuccess || d.CampaignApplied {
		return false, nil
	}
	d.CampaignApplied = true
	return true, nil
}

func (f *fakeStore) ReleaseDonationApply(_ context.Context, reference string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.donations[reference]; ok {
		d.CampaignApplied = false
	}
	return nil
}

func (f *fakeStore) ListUnappliedDonations(_ context.Context) ([]models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Donation
	for _, d := range f.donations {
		if d.Status == models.DonationSuccess && !d.CampaignApplied {
			out = append(out, *d)
		}
	}
	return out, nil
}

type fakeGateway struct {
	mu       sync.Mutex
	calls    int
	lastReq  payments.InitTransactionRequest
	failWith error
}

func (g *fakeGateway) InitTransaction(_ context.Context, req payments.InitTransactionRequest) (*payments.InitTransactionResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastReq = req
	if g.failWith != nil {
		return nil, g.failWith
	}
	return &payments.InitTransactionResponse{
		CheckoutURL:          "https://checkout.example.com/" + req.PaymentReference,
		TransactionReference: "MNFY|" + req.PaymentReference,
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		MonnifySecretKey:    testWebhookSecret,
		DonationRedirectURL: "https://example.com/donate/success",
	}
}

func initiateRouter(s store.Store, gw payments.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/donations/initiate", InitiateDonation(testConfig(), s, gw))
	return r
}

func webhookRouter(s store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/donations/webhook", MonnifyWebhook(testConfig(), s))
	return r
}

func postJSON(r *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signedWebhookRequest(body []byte, secret string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/donations/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("monnify-signature", utils.ComputeMonnifySignature(secret, body))
	return req
}

func successEvent(reference string, amount float64) []byte {
	return []byte(fmt.Sprintf(
		`{"eventType":"SUCCESSFUL_TRANSACTION","eventData":{"paymentReference":"%s","amountPaid":%g}}`,
		reference, amount))
}

// ---------------- INITIATE ----------------

func TestInitiateDonation(t *testing.T) {
	t.Run("creates pending donation and returns checkout url", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 0)
		gw := &fakeGateway{}
		r := initiateRouter(s, gw)

		body := fmt.Sprintf(
			`{"campaignId":"%s","firstName":"Ada","lastName":"Obi","email":"ada@example.com","phone":"0801","amount":250}`,
			campaign.ID.Hex())
		w := postJSON(r, "/api/v1/donations/initiate", body)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			CheckoutURL string `json:"checkoutUrl"`
			Reference   string `json:"reference"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("could not decode response: %v", err)
		}
		if resp.CheckoutURL == "" {
			t.Fatal("expected a checkout url")
		}
		if !strings.HasPrefix(resp.Reference, "DON_") {
			t.Fatalf("unexpected reference format: %s", resp.Reference)
		}

		donation, err := s.GetDonationByReference(context.Background(), resp.Reference)
		if err != nil {
			t.Fatalf("donation not persisted: %v", err)
		}
		if donation.Status != models.DonationPending {
			t.Fatalf("expected pending donation, got %s", donation.Status)
		}
		if donation.Amount != 250 {
			t.Fatalf("expected amount 250, got %v", donation.Amount)
		}
		if gw.lastReq.PaymentReference != resp.Reference {
			t.Fatal("reference sent to provider differs from reference returned")
		}
		if gw.lastReq.Metadata["campaignId"] != campaign.ID.Hex() {
			t.Fatal("campaign id missing from provider metadata")
		}
	})

	t.Run("missing amount", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 0)
		r := initiateRouter(s, &fakeGateway{})

		body := fmt.Sprintf(
			`{"campaignId":"%s","firstName":"Ada","lastName":"Obi","email":"ada@example.com","phone":"0801"}`,
			campaign.ID.Hex())
		w := postJSON(r, "/api/v1/donations/initiate", body)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "amount") {
			t.Fatalf("expected a field-specific message, got %s", w.Body.String())
		}
		if s.insertCalls != 0 {
			t.Fatal("no donation should be created for invalid input")
		}
	})

	t.Run("unknown campaign", func(t *testing.T) {
		s := newFakeStore()
		r := initiateRouter(s, &fakeGateway{})

		body := fmt.Sprintf(
			`{"campaignId":"%s","firstName":"Ada","lastName":"Obi","email":"ada@example.com","phone":"0801","amount":50}`,
			primitive.NewObjectID().Hex())
		w := postJSON(r, "/api/v1/donations/initiate", body)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("provider failure persists nothing", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 0)
		gw := &fakeGateway{failWith: errors.New("monnify rejected")}
		r := initiateRouter(s, gw)

		body := fmt.Sprintf(
			`{"campaignId":"%s","firstName":"Ada","lastName":"Obi","email":"ada@example.com","phone":"0801","amount":50}`,
			campaign.ID.Hex())
		w := postJSON(r, "/api/v1/donations/initiate", body)

		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
		if s.insertCalls != 0 {
			t.Fatal("no donation should be persisted when the provider call fails")
		}
	})
}

// ---------------- WEBHOOK ----------------

func TestMonnifyWebhook(t *testing.T) {
	t.Run("bad signature mutates nothing", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 0)
		s.addPendingDonation(campaign.ID, "DON_1", 100)
		r := webhookRouter(s)

		req := signedWebhookRequest(successEvent("DON_1", 100), "wrong-secret")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		donation, _ := s.GetDonationByReference(context.Background(), "DON_1")
		if donation.Status != models.DonationPending {
			t.Fatal("donation must stay pending on signature mismatch")
		}
		if s.applyCalls != 0 {
			t.Fatal("campaign must not be touched on signature mismatch")
		}
	})

	t.Run("missing signature header rejected", func(t *testing.T) {
		s := newFakeStore()
		r := webhookRouter(s)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/donations/webhook",
			bytes.NewReader(successEvent("DON_1", 100)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		s := newFakeStore()
		r := webhookRouter(s)

		body := []byte(`{"eventType":`)
		req := signedWebhookRequest(body, testWebhookSecret)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unhandled event type is acknowledged", func(t *testing.T) {
		s := newFakeStore()
		r := webhookRouter(s)

		body := []byte(`{"eventType":"FAILED_TRANSACTION","eventData":{"paymentReference":"DON_1","amountPaid":100}}`)
		req := signedWebhookRequest(body, testWebhookSecret)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if s.markSuccessCalls != 0 {
			t.Fatal("ignored events must not touch donations")
		}
	})

	t.Run("unknown reference is acknowledged without mutation", func(t *testing.T) {
		s := newFakeStore()
		s.addCampaign(1000, 0)
		r := webhookRouter(s)

		req := signedWebhookRequest(successEvent("DON_MISSING", 100), testWebhookSecret)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if s.applyCalls != 0 {
			t.Fatal("no campaign mutation expected for unknown reference")
		}
	})

	t.Run("successful reconciliation updates donation and campaign", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 0)
		s.addPendingDonation(campaign.ID, "DON_1", 100)
		r := webhookRouter(s)

		req := signedWebhookRequest(successEvent("DON_1", 100), testWebhookSecret)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		donation, _ := s.GetDonationByReference(context.Background(), "DON_1")
		if donation.Status != models.DonationSuccess {
			t.Fatalf("expected success, got %s", donation.Status)
		}
		if donation.PaidAt == nil {
			t.Fatal("paid_at must be set on success")
		}
		if !donation.CampaignApplied {
			t.Fatal("donation should be flagged applied after the campaign update")
		}

		got, _ := s.GetCampaignByID(context.Background(), campaign.ID.Hex())
		if got.DonatedAmount != 100 {
			t.Fatalf("expected donated 100, got %v", got.DonatedAmount)
		}
		if got.Supporters != 1 {
			t.Fatalf("expected 1 supporter, got %d", got.Supporters)
		}
		if got.Status != models.CampaignInProgress {
			t.Fatalf("campaign below goal must stay inprogress, got %s", got.Status)
		}
	})

	t.Run("redelivery applies exactly once", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 0)
		s.addPendingDonation(campaign.ID, "DON_1", 100)
		r := webhookRouter(s)

		for i := 0; i < 3; i++ {
			req := signedWebhookRequest(successEvent("DON_1", 100), testWebhookSecret)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("delivery %d: expected 200, got %d", i, w.Code)
			}
		}

		got, _ := s.GetCampaignByID(context.Background(), campaign.ID.Hex())
		if got.DonatedAmount != 100 {
			t.Fatalf("expected a single increment, got donated %v", got.DonatedAmount)
		}
		if got.Supporters != 1 {
			t.Fatalf("expected 1 supporter, got %d", got.Supporters)
		}
	})

	t.Run("concurrent redelivery crosses the goal once", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 950)
		s.addPendingDonation(campaign.ID, "DON_1", 100)
		r := webhookRouter(s)

		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				req := signedWebhookRequest(successEvent("DON_1", 100), testWebhookSecret)
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)
			}()
		}
		wg.Wait()

		got, _ := s.GetCampaignByID(context.Background(), campaign.ID.Hex())
		if got.DonatedAmount != 1050 {
			t.Fatalf("expected donated 1050, got %v", got.DonatedAmount)
		}
		if got.Status != models.CampaignCompleted {
			t.Fatalf("expected completed, got %s", got.Status)
		}
		donation, _ := s.GetDonationByReference(context.Background(), "DON_1")
		if donation.Status != models.DonationSuccess {
			t.Fatalf("expected success, got %s", donation.Status)
		}
	})

	t.Run("independent donations sum commutatively", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 0)
		amounts := []float64{50, 150, 300}
		for i, amount := range amounts {
			s.addPendingDonation(campaign.ID, fmt.Sprintf("DON_%d", i), amount)
		}
		r := webhookRouter(s)

		// deliver in reverse order
		for i := len(amounts) - 1; i >= 0; i-- {
			req := signedWebhookRequest(successEvent(fmt.Sprintf("DON_%d", i), amounts[i]), testWebhookSecret)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("delivery %d: expected 200, got %d", i, w.Code)
			}
		}

		got, _ := s.GetCampaignByID(context.Background(), campaign.ID.Hex())
		if got.DonatedAmount != 500 {
			t.Fatalf("expected donated 500, got %v", got.DonatedAmount)
		}
		if got.Supporters != 3 {
			t.Fatalf("expected 3 supporters, got %d", got.Supporters)
		}
		if got.Status != models.CampaignInProgress {
			t.Fatalf("expected inprogress, got %s", got.Status)
		}
	})

	t.Run("persistence failure returns a retryable status", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 0)
		s.addPendingDonation(campaign.ID, "DON_1", 100)
		s.failMarkSuccess = true
		r := webhookRouter(s)

		req := signedWebhookRequest(successEvent("DON_1", 100), testWebhookSecret)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500 so the provider redelivers, got %d", w.Code)
		}
		donation, _ := s.GetDonationByReference(context.Background(), "DON_1")
		if donation.Status != models.DonationPending {
			t.Fatal("donation must stay pending when the store is down")
		}
	})

	t.Run("campaign update failure still acks and leaves donation unapplied", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 0)
		s.addPendingDonation(campaign.ID, "DON_1", 100)
		s.failApply = true
		r := webhookRouter(s)

		req := signedWebhookRequest(successEvent("DON_1", 100), testWebhookSecret)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 once the donation is marked, got %d", w.Code)
		}
		donation, _ := s.GetDonationByReference(context.Background(), "DON_1")
		if donation.Status != models.DonationSuccess {
			t.Fatal("donation must be success even when the campaign update fails")
		}
		if donation.CampaignApplied {
			t.Fatal("donation must stay flagged for the reconciler")
		}

		unapplied, _ := s.ListUnappliedDonations(context.Background())
		if len(unapplied) != 1 {
			t.Fatalf("expected 1 unapplied donation, got %d", len(unapplied))
		}
	})

	t.Run("missing campaign is acknowledged with warning", func(t *testing.T) {
		s := newFakeStore()
		s.addPendingDonation(primitive.NewObjectID(), "DON_1", 100)
		r := webhookRouter(s)

		req := signedWebhookRequest(successEvent("DON_1", 100), testWebhookSecret)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		donation, _ := s.GetDonationByReference(context.Background(), "DON_1")
		if donation.Status != models.DonationSuccess {
			t.Fatal("orphaned donation must still be marked success")
		}
		if !donation.CampaignApplied {
			t.Fatal("orphaned donation must be flagged applied so the reconciler does not spin")
		}
	})

	t.Run("reconciler run after a delivered webhook changes nothing", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 0)
		s.addPendingDonation(campaign.ID, "DON_1", 100)
		r := webhookRouter(s)

		req := signedWebhookRequest(successEvent("DON_1", 100), testWebhookSecret)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		jobs.ReconcileUnappliedDonations(s)

		got, _ := s.GetCampaignByID(context.Background(), campaign.ID.Hex())
		if got.DonatedAmount != 100 {
			t.Fatalf("expected donated 100 after reconciler run, got %v", got.DonatedAmount)
		}
		if got.Supporters != 1 {
			t.Fatalf("expected 1 supporter after reconciler run, got %d", got.Supporters)
		}
	})

	t.Run("claim failure leaves donation for the reconciler", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 0)
		s.addPendingDonation(campaign.ID, "DON_1", 100)
		s.failClaim = true
		r := webhookRouter(s)

		req := signedWebhookRequest(successEvent("DON_1", 100), testWebhookSecret)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 once the donation is marked, got %d", w.Code)
		}
		got, _ := s.GetCampaignByID(context.Background(), campaign.ID.Hex())
		if got.DonatedAmount != 0 {
			t.Fatalf("no increment may land without a claim, got donated %v", got.DonatedAmount)
		}

		s.failClaim = false
		jobs.ReconcileUnappliedDonations(s)
		jobs.ReconcileUnappliedDonations(s)

		got, _ = s.GetCampaignByID(context.Background(), campaign.ID.Hex())
		if got.DonatedAmount != 100 {
			t.Fatalf("expected donated 100 after reconciler runs, got %v", got.DonatedAmount)
		}
		if got.Supporters != 1 {
			t.Fatalf("expected 1 supporter, got %d", got.Supporters)
		}
	})

	t.Run("reconciler replays the settled amount, not the pledge", func(t *testing.T) {
		s := newFakeStore()
		campaign := s.addCampaign(1000, 0)
		s.addPendingDonation(campaign.ID, "DON_1", 100)
		s.failApply = true
		r := webhookRouter(s)

		req := signedWebhookRequest(successEvent("DON_1", 80), testWebhookSecret)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		donation, _ := s.GetDonationByReference(context.Background(), "DON_1")
		if donation.AmountPaid != 80 {
			t.Fatalf("expected settled amount 80 on the donation, got %v", donation.AmountPaid)
		}

		s.failApply = false
		jobs.ReconcileUnappliedDonations(s)

		got, _ := s.GetCampaignByID(context.Background(), campaign.ID.Hex())
		if got.DonatedAmount != 80 {
			t.Fatalf("campaign must absorb the settled 80, got %v", got.DonatedAmount)
		}
	})
}

// ---------------- LIST FILTER ----------------

func filterForQuery(t *testing.T, query string) bson.M {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/admin/donations?"+query, nil)
	return donationListFilter(c)
}

func TestDonationListFilter(t *testing.T) {
	t.Run("campaignId uses the API's camelCase param", func(t *testing.T) {
		oid := primitive.NewObjectID()
		filter := filterForQuery(t, "campaignId="+oid.Hex())
		if got, ok := filter["campaign_id"]; !ok || got != oid {
			t.Fatalf("expected campaign_id %s in filter, got %v", oid.Hex(), filter)
		}
	})

	t.Run("invalid campaignId is ignored", func(t *testing.T) {
		filter := filterForQuery(t, "campaignId=not-a-hex-id")
		if _, ok := filter["campaign_id"]; ok {
			t.Fatal("malformed id must not reach the query")
		}
	})

	t.Run("status passes through", func(t *testing.T) {
		filter := filterForQuery(t, "status=success")
		if filter["status"] != "success" {
			t.Fatalf("expected status success in filter, got %v", filter)
		}
	})

	t.Run("no params means no filter", func(t *testing.T) {
		if filter := filterForQuery(t, ""); len(filter) != 0 {
			t.Fatalf("expected empty filter, got %v", filter)
		}
	})
}
