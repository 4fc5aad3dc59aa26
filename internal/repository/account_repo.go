package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/coursepay/internal/domain"
)

type AccountRepo struct{ db *gorm.DB }

func NewAccountRepo(db *gorm.DB) *AccountRepo {
	return &AccountRepo{db: db}
}
func (r *AccountRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Account{})
}

// FindOrCreate inserts a, or loads the existing row with the same email.
// The insert is atomic on the unique email index, so two concurrent
// deliveries for the same payer cannot both create. Existing rows are
// returned untouched even if name/phone differ.
func (r *AccountRepo) FindOrCreate(ctx context.Context, a *domain.Account) (bool, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(a)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	return false, r.db.WithContext(ctx).First(a, "email = ?", a.Email).Error
}

func (r *AccountRepo) ByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var a domain.Account
	if err := r.db.WithContext(ctx).First(&a, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) ByID(ctx context.Context, id string) (*domain.Account, error) {
	var a domain.Account
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
