package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewDonationReference generates the externally-visible idempotency key for a
// donation: a time-based prefix plus a random UUID. No uniqueness check is
// done here; the unique index on donations.reference is the safety net.
func NewDonationReference() string {
	return fmt.Sprintf("DON_%d_%s", time.Now().UnixMilli(), uuid.NewString())
}
