package interaction

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository defines the data access interface for interaction records.
type Repository interface {
	Create(ctx context.Context, record *Record) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new interaction repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *Record) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create interaction record: %w", err)
	}
	return nil
}
