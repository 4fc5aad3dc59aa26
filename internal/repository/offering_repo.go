package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/coursepay/internal/domain"
)

type OfferingRepo struct{ db *gorm.DB }

func NewOfferingRepo(db *gorm.DB) *OfferingRepo {
	return &OfferingRepo{db: db}
}
func (r *OfferingRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.CourseOffering{})
}

func (r *OfferingRepo) ByID(ctx context.Context, id string) (*domain.CourseOffering, error) {
	var o domain.CourseOffering
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// Create exists for seeding and tests; offerings are otherwise managed by
// the catalog side of the platform.
func (r *OfferingRepo) Create(ctx context.Context, o *domain.CourseOffering) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(o).Error
}
