package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/coursepay/internal/domain"
)

// PaymentRepo is the reconciliation ledger.
type PaymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}
func (r *PaymentRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.ProcessedPayment{})
}

func (r *PaymentRepo) HasProcessed(ctx context.Context, paymentID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.ProcessedPayment{}).
		Where("payment_id = ?", paymentID).Count(&n).Error
	return n > 0, err
}

// ByPaymentID returns the ledger row, or nil when the payment has not been
// reconciled yet.
func (r *PaymentRepo) ByPaymentID(ctx context.Context, paymentID string) (*domain.ProcessedPayment, error) {
	var p domain.ProcessedPayment
	err := r.db.WithContext(ctx).First(&p, "payment_id = ?", paymentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Record inserts the ledger row unless the payment id is already present.
// A conflict means a concurrent delivery won the race; that is "already
// processed", not an error.
func (r *PaymentRepo) Record(ctx context.Context, p *domain.ProcessedPayment) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "payment_id"}}, DoNothing: true}).
		Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
