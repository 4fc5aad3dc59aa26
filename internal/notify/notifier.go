package notify

import (
	"context"
	"time"
)

// OnboardingEmail carries everything the mail collaborator needs to greet
// a payer after enrollment.
type OnboardingEmail struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	NewAccount   bool   `json:"new_account"`
	CourseName   string `json:"course_name"`
	EnrollmentID string `json:"enrollment_id"`
}

// LedgerRecord is one row for the external sales ledger/sheet.
type LedgerRecord struct {
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	PricePaid int64     `json:"price_paid"` // minor units
	ListPrice int64     `json:"list_price"` // minor units
	Timestamp time.Time `json:"timestamp"`
}

// Mailer is the onboarding-email collaborator. Duplicate sends are
// tolerated; delivery is best-effort.
type Mailer interface {
	SendOnboardingEmail(ctx context.Context, m OnboardingEmail) error
}

// LedgerSync appends rows to the external spreadsheet/ledger collaborator.
type LedgerSync interface {
	Append(ctx context.Context, rec LedgerRecord) error
}
