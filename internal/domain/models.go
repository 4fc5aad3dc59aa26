package domain

import "time"

type Account struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"` // stored lowercased
	Name         string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CourseOffering is a scheduled batch of a course. Read-only here;
// rows are managed by the catalog side of the platform.
type CourseOffering struct {
	ID         string `gorm:"primaryKey"`
	CourseName string
	StartDate  time.Time
	ListPrice  int64 // minor units
	CreatedAt  time.Time
}

type Enrollment struct {
	ID            string `gorm:"primaryKey"`
	AccountID     string `gorm:"uniqueIndex:idx_enrollments_account_offering"`
	OfferingID    string `gorm:"uniqueIndex:idx_enrollments_account_offering"`
	PaymentAmount int64  // major units
	JoinedAt      time.Time
	CreatedAt     time.Time
}

// ProcessedPayment is the reconciliation ledger entry. The gateway payment
// id is the idempotency anchor: one row per payment, insert-only.
type ProcessedPayment struct {
	PaymentID    string `gorm:"primaryKey"`
	OrderID      string `gorm:"index"`
	AccountID    string
	EnrollmentID string
	Amount       int64 // minor units
	ProcessedAt  time.Time
}
