package notify

import (
	"context"
	"log"
)

// Console implementations log instead of calling out. Used in dev and
// whenever the collaborator URLs are not configured.

type ConsoleMailer struct{}

func NewConsoleMailer() *ConsoleMailer { return &ConsoleMailer{} }

func (c *ConsoleMailer) SendOnboardingEmail(_ context.Context, m OnboardingEmail) error {
	log.Printf("[mail] onboarding to=%s course=%s enrollment=%s new_account=%v",
		m.Email, m.CourseName, m.EnrollmentID, m.NewAccount)
	return nil
}

type ConsoleLedger struct{}

func NewConsoleLedger() *ConsoleLedger { return &ConsoleLedger{} }

func (c *ConsoleLedger) Append(_ context.Context, rec LedgerRecord) error {
	log.Printf("[sheet] append email=%s paid=%d list=%d", rec.Email, rec.PricePaid, rec.ListPrice)
	return nil
}
