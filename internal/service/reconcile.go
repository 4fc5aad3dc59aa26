package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/you/coursepay/internal/dispatch"
	"github.com/you/coursepay/internal/domain"
	"github.com/you/coursepay/internal/gateway"
	"github.com/you/coursepay/internal/notify"
	"github.com/you/coursepay/internal/repository"
	"github.com/you/coursepay/internal/signature"
	"github.com/you/coursepay/pkg/mq"
)

// Accounts auto-created on first payment get this placeholder until the
// payer sets a real password through the account flow.
const defaultPasswordPlaceholder = "changeme@coursepay"

// Deps wires the reconciler. Everything is constructed once at process
// start; nothing here is built per request.
type Deps struct {
	Accounts    *repository.AccountRepo
	Offerings   *repository.OfferingRepo
	Enrollments *repository.EnrollmentRepo
	Ledger      *repository.PaymentRepo
	Gateway     gateway.API
	WebhookSig  *signature.Verifier
	VerifySig   *signature.Verifier
	Pool        *dispatch.Pool
	Mailer      notify.Mailer
	Sheets      notify.LedgerSync
	Publisher   *mq.Publisher // optional
	Logger      *slog.Logger

	// RenotifyOnDuplicate re-runs the side effects when the gateway
	// redelivers an already-reconciled payment.
	RenotifyOnDuplicate bool
}

// Reconciler drives a payment event through signature check, duplicate
// check, account and enrollment resolution, the ledger commit, and
// detached side effects.
type Reconciler struct {
	deps Deps
}

func New(deps Deps) *Reconciler {
	return &Reconciler{deps: deps}
}

// Result reports what a reconciliation did. Duplicate means the ledger
// already held the payment; Ignored means the event type is not one this
// service handles.
type Result struct {
	PaymentID    string
	AccountID    string
	EnrollmentID string
	UserCreated  bool
	Duplicate    bool
	Ignored      bool
}

// HandleWebhook authenticates a gateway push against the raw body and
// reconciles the captured payment it carries.
func (s *Reconciler) HandleWebhook(ctx context.Context, body []byte, sig string) (*Result, error) {
	if !s.deps.WebhookSig.Configured() {
		return nil, signature.ErrSecretMissing
	}
	if !s.deps.WebhookSig.Verify(string(body), sig) {
		s.deps.Logger.Warn("webhook signature rejected")
		return nil, ErrSignatureMismatch
	}

	var env domain.WebhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if env.Event != domain.EventPaymentCaptured {
		return &Result{Ignored: true}, nil
	}
	return s.reconcile(ctx, env.Payload.Payment)
}

// VerifyPayment is the client-initiated entry point: the client presents
// the payment/order ids plus the gateway's checkout signature, and the
// authoritative payment details are fetched from the gateway before the
// usual reconciliation runs.
func (s *Reconciler) VerifyPayment(ctx context.Context, paymentID, orderID, sig string) (*Result, error) {
	if paymentID == "" || orderID == "" || sig == "" {
		return nil, ErrMalformedEvent
	}
	if !s.deps.VerifySig.Configured() {
		return nil, signature.ErrSecretMissing
	}
	if !s.deps.VerifySig.Verify(orderID+"|"+paymentID, sig) {
		s.deps.Logger.Warn("verify signature rejected", "payment_id", paymentID)
		return nil, ErrSignatureMismatch
	}

	p, err := s.deps.Gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("gateway read: %w", err)
	}
	if p.Status != gateway.StatusCaptured {
		return nil, fmt.Errorf("%w: status=%s", ErrPaymentNotCaptured, p.Status)
	}

	ev := domain.PaymentEvent{
		PaymentID: p.ID,
		OrderID:   orderID,
		Amount:    p.Amount,
		Notes:     p.Notes,
	}
	if p.OrderID != "" {
		ev.OrderID = p.OrderID
	}
	return s.reconcile(ctx, ev)
}

func (s *Reconciler) reconcile(ctx context.Context, ev domain.PaymentEvent) (*Result, error) {
	if ev.PaymentID == "" || ev.OrderID == "" || ev.Notes.Email == "" || ev.Notes.OfferingID == "" {
		return nil, ErrMalformedEvent
	}

	processed, err := s.deps.Ledger.ByPaymentID(ctx, ev.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("ledger lookup: %w", err)
	}
	if processed != nil && !s.deps.RenotifyOnDuplicate {
		s.deps.Logger.Info("duplicate payment delivery",
			"payment_id", ev.PaymentID, "enrollment_id", processed.EnrollmentID)
		return &Result{
			PaymentID:    ev.PaymentID,
			AccountID:    processed.AccountID,
			EnrollmentID: processed.EnrollmentID,
			Duplicate:    true,
		}, nil
	}

	offering, err := s.deps.Offerings.ByID(ctx, ev.Notes.OfferingID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOfferingNotFound, ev.Notes.OfferingID)
		}
		return nil, fmt.Errorf("offering lookup: %w", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(defaultPasswordPlaceholder), bcrypt.DefaultCost)
	account := &domain.Account{
		Email:        strings.ToLower(ev.Notes.Email),
		Name:         ev.Notes.Name,
		Phone:        ev.Notes.Phone,
		PasswordHash: string(hash),
	}
	userCreated, err := s.deps.Accounts.FindOrCreate(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("account resolve: %w", err)
	}

	enrollment := &domain.Enrollment{
		AccountID:     account.ID,
		OfferingID:    offering.ID,
		PaymentAmount: ev.Amount / 100,
		JoinedAt:      time.Now().UTC(),
	}
	enrollmentCreated, err := s.deps.Enrollments.FindOrCreate(ctx, enrollment)
	if err != nil {
		return nil, fmt.Errorf("enrollment resolve: %w", err)
	}

	duplicate := processed != nil
	if processed == nil {
		created, err := s.deps.Ledger.Record(ctx, &domain.ProcessedPayment{
			PaymentID:    ev.PaymentID,
			OrderID:      ev.OrderID,
			AccountID:    account.ID,
			EnrollmentID: enrollment.ID,
			Amount:       ev.Amount,
			ProcessedAt:  time.Now().UTC(),
		})
		// The enrollment exists by now, so the payer's purchase stands
		// either way; an incomplete audit trail is logged, not surfaced.
		if err != nil {
			s.deps.Logger.Error("ledger record failed", "payment_id", ev.PaymentID, "error", err)
		} else if !created {
			// concurrent delivery committed first
			duplicate = true
		}
	}

	if !duplicate {
		s.publish(ctx, ev, account, offering, enrollment, userCreated, enrollmentCreated)
	}
	s.scheduleSideEffects(ev, account, offering, enrollment, userCreated)

	s.deps.Logger.Info("payment reconciled",
		"payment_id", ev.PaymentID,
		"enrollment_id", enrollment.ID,
		"user_created", userCreated,
		"duplicate", duplicate,
	)
	return &Result{
		PaymentID:    ev.PaymentID,
		AccountID:    account.ID,
		EnrollmentID: enrollment.ID,
		UserCreated:  userCreated,
		Duplicate:    duplicate,
	}, nil
}

func (s *Reconciler) publish(ctx context.Context, ev domain.PaymentEvent,
	account *domain.Account, offering *domain.CourseOffering,
	enrollment *domain.Enrollment, userCreated, enrollmentCreated bool) {

	if s.deps.Publisher == nil {
		return
	}
	err := s.deps.Publisher.PublishJSON(ctx, domain.RKPaymentReconciled, domain.PaymentReconciled{
		PaymentID:    ev.PaymentID,
		OrderID:      ev.OrderID,
		AccountID:    account.ID,
		EnrollmentID: enrollment.ID,
		Amount:       ev.Amount,
	})
	if err != nil {
		s.deps.Logger.Warn("publish payment.reconciled failed", "error", err)
	}
	if !enrollmentCreated {
		return
	}
	err = s.deps.Publisher.PublishJSON(ctx, domain.RKEnrollmentCreated, domain.EnrollmentCreated{
		EnrollmentID: enrollment.ID,
		AccountID:    account.ID,
		OfferingID:   offering.ID,
		CourseName:   offering.CourseName,
		NewAccount:   userCreated,
	})
	if err != nil {
		s.deps.Logger.Warn("publish enrollment.created failed", "error", err)
	}
}

// scheduleSideEffects hands the onboarding email and the sheet sync to the
// pool and returns immediately; the HTTP response never waits on either.
func (s *Reconciler) scheduleSideEffects(ev domain.PaymentEvent,
	account *domain.Account, offering *domain.CourseOffering,
	enrollment *domain.Enrollment, userCreated bool) {

	email := notify.OnboardingEmail{
		Name:         account.Name,
		Email:        account.Email,
		NewAccount:   userCreated,
		CourseName:   offering.CourseName,
		EnrollmentID: enrollment.ID,
	}
	if !s.deps.Pool.Submit(dispatch.Task{
		Name: "onboarding_email",
		Run: func(ctx context.Context) error {
			return s.deps.Mailer.SendOnboardingEmail(ctx, email)
		},
	}) {
		s.deps.Logger.Warn("dispatch queue full, dropping onboarding email", "payment_id", ev.PaymentID)
	}

	rec := notify.LedgerRecord{
		Name:      account.Name,
		Phone:     account.Phone,
		Email:     account.Email,
		PricePaid: ev.Amount,
		ListPrice: offering.ListPrice,
		Timestamp: time.Now().UTC(),
	}
	if !s.deps.Pool.Submit(dispatch.Task{
		Name: "ledger_sync",
		Run: func(ctx context.Context) error {
			return s.deps.Sheets.Append(ctx, rec)
		},
	}) {
		s.deps.Logger.Warn("dispatch queue full, dropping ledger sync", "payment_id", ev.PaymentID)
	}
}
