package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the data access interface for ledger entries.
type Repository interface {
	Exists(ctx context.Context, userID string) (bool, error)
	Create(ctx context.Context, entry *Entry) error
	GetByUserID(ctx context.Context, userID string) (*Entry, error)
	Deduct(ctx context.Context, userID string, cost int64) (int64, error)
	SetBalance(ctx context.Context, userID string, balance int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new ledger repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Exists(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Entry{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check ledger entry: %w", err)
	}
	return count > 0, nil
}

func (r *repository) Create(ctx context.Context, entry *Entry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

func (r *repository) GetByUserID(ctx context.Context, userID string) (*Entry, error) {
	var entry Entry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	return &entry, nil
}

// Deduct decrements the balance by cost in a single conditional update, so
// concurrent spends can never drive the balance below zero. The updated
// balance is returned through the RETURNING clause of the same statement.
func (r *repository) Deduct(ctx context.Context, userID string, cost int64) (int64, error) {
	var entry Entry
	result := r.db.WithContext(ctx).Model(&entry).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "balance"}}}).
		Where("user_id = ? AND balance >= ?", userID, cost).
		UpdateColumn("balance", gorm.Expr("balance - ?", cost))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deduct from ledger: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		exists, err := r.Exists(ctx, userID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, ErrUserNotFound
		}
		return 0, ErrInsufficientBalance
	}
	return entry.Balance, nil
}

func (r *repository) SetBalance(ctx context.Context, userID string, balance int64) error {
	result := r.db.WithContext(ctx).Model(&Entry{}).
		Where("user_id = ?", userID).
		UpdateColumn("balance", balance)
	if result.Error != nil {
		return fmt.Errorf("failed to set ledger balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
