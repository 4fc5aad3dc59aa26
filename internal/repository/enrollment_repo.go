package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/coursepay/internal/domain"
)

type EnrollmentRepo struct{ db *gorm.DB }

func NewEnrollmentRepo(db *gorm.DB) *EnrollmentRepo {
	return &EnrollmentRepo{db: db}
}
func (r *EnrollmentRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Enrollment{})
}

// FindOrCreate inserts e, or loads the existing enrollment for the same
// (account, offering) pair. An existing row keeps its original payment
// amount; a redelivered payment never rewrites it.
func (r *EnrollmentRepo) FindOrCreate(ctx context.Context, e *domain.Enrollment) (bool, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "offering_id"}},
			DoNothing: true,
		}).
		Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	return false, r.db.WithContext(ctx).
		First(e, "account_id = ? AND offering_id = ?", e.AccountID, e.OfferingID).Error
}

func (r *EnrollmentRepo) ByPair(ctx context.Context, accountID, offeringID string) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.WithContext(ctx).
		First(&e, "account_id = ? AND offering_id = ?", accountID, offeringID).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}
