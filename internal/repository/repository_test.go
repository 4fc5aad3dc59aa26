package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/coursepay/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func migrateAll(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, m := range []interface{ Migrate() error }{
		NewAccountRepo(db), NewOfferingRepo(db), NewEnrollmentRepo(db), NewPaymentRepo(db),
	} {
		if err := m.Migrate(); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
}

func TestAccountFindOrCreate(t *testing.T) {
	db := newTestDB(t)
	migrateAll(t, db)
	repo := NewAccountRepo(db)
	ctx := context.Background()

	a := &domain.Account{Email: "a@x.com", Name: "Asha", Phone: "111"}
	created, err := repo.FindOrCreate(ctx, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true on first resolve")
	}
	if a.ID == "" {
		t.Fatal("expected an id to be assigned")
	}

	// Same email, different name/phone: existing row wins, untouched.
	b := &domain.Account{Email: "a@x.com", Name: "Different", Phone: "222"}
	created, err = repo.FindOrCreate(ctx, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected created=false on second resolve")
	}
	if b.ID != a.ID {
		t.Fatalf("expected existing id %s, got %s", a.ID, b.ID)
	}

	got, err := repo.ByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Asha" || got.Phone != "111" {
		t.Fatalf("existing account must not be updated, got %+v", got)
	}

	var n int64
	db.Model(&domain.Account{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected 1 account row, got %d", n)
	}
}

func TestEnrollmentFindOrCreate(t *testing.T) {
	db := newTestDB(t)
	migrateAll(t, db)
	repo := NewEnrollmentRepo(db)
	ctx := context.Background()

	e := &domain.Enrollment{AccountID: "acc1", OfferingID: "off1", PaymentAmount: 3000, JoinedAt: time.Now()}
	created, err := repo.FindOrCreate(ctx, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true on first resolve")
	}

	// Redelivery with a different amount keeps the original row.
	e2 := &domain.Enrollment{AccountID: "acc1", OfferingID: "off1", PaymentAmount: 9999, JoinedAt: time.Now()}
	created, err = repo.FindOrCreate(ctx, e2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected created=false for the same pair")
	}
	if e2.ID != e.ID {
		t.Fatalf("expected same enrollment, got %s vs %s", e2.ID, e.ID)
	}
	if e2.PaymentAmount != 3000 {
		t.Fatalf("existing amount must not change, got %d", e2.PaymentAmount)
	}

	// Same account, second offering: new row.
	e3 := &domain.Enrollment{AccountID: "acc1", OfferingID: "off2", PaymentAmount: 500, JoinedAt: time.Now()}
	created, err = repo.FindOrCreate(ctx, e3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true for a new offering")
	}

	var n int64
	db.Model(&domain.Enrollment{}).Count(&n)
	if n != 2 {
		t.Fatalf("expected 2 enrollment rows, got %d", n)
	}
}

func TestPaymentLedgerRecordIdempotent(t *testing.T) {
	db := newTestDB(t)
	migrateAll(t, db)
	repo := NewPaymentRepo(db)
	ctx := context.Background()

	ok, err := repo.HasProcessed(ctx, "pay_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("ledger should start empty")
	}

	p := &domain.ProcessedPayment{
		PaymentID: "pay_1", OrderID: "order_1",
		AccountID: "acc1", EnrollmentID: "enr1",
		Amount: 300000, ProcessedAt: time.Now(),
	}
	created, err := repo.Record(ctx, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true on first record")
	}

	created, err = repo.Record(ctx, p)
	if err != nil {
		t.Fatalf("duplicate record must not error: %v", err)
	}
	if created {
		t.Fatal("expected created=false on duplicate record")
	}

	got, err := repo.ByPaymentID(ctx, "pay_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.EnrollmentID != "enr1" {
		t.Fatalf("expected ledger row for pay_1, got %+v", got)
	}

	missing, err := repo.ByPaymentID(ctx, "pay_nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for an unknown payment id")
	}
}
