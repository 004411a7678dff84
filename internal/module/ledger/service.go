package ledger

import (
	"context"

	"go.uber.org/zap"
)

// ServiceInterface defines the ledger service contract.
type ServiceInterface interface {
	Exists(ctx context.Context, userID string) (bool, error)
	CreateUser(ctx context.Context, userID string) (*Entry, error)
	GetBalance(ctx context.Context, userID string) (int64, error)
	Spend(ctx context.Context, userID string, cost int64) (int64, error)
	SetBalance(ctx context.Context, userID string, balance int64) error
}

// Service implements the usage ledger business logic.
type Service struct {
	repo         Repository
	initialGrant int64
	logger       *zap.Logger
}

// NewService creates a new ledger service. New users start with initialGrant
// operations on their balance.
func NewService(repo Repository, initialGrant int64, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		initialGrant: initialGrant,
		logger:       logger,
	}
}

func (s *Service) Exists(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, ErrInvalidUserID
	}
	return s.repo.Exists(ctx, userID)
}

// CreateUser registers a user in the ledger with the initial grant. Creating
// the same user twice returns ErrUserExists and leaves the balance untouched.
func (s *Service) CreateUser(ctx context.Context, userID string) (*Entry, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	entry := &Entry{
		UserID:  userID,
		Balance: s.initialGrant,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("ledger entry created",
		zap.String("user_id", userID),
		zap.Int64("balance", entry.Balance))
	return entry, nil
}

func (s *Service) GetBalance(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrInvalidUserID
	}
	entry, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return entry.Balance, nil
}

// Spend atomically deducts cost from the user's balance. It returns
// ErrInsufficientBalance when the balance is lower than cost; the balance is
// never driven below zero, regardless of concurrent spends.
func (s *Service) Spend(ctx context.Context, userID string, cost int64) (int64, error) {
	if userID == "" {
		return 0, ErrInvalidUserID
	}
	if cost <= 0 {
		return 0, ErrInvalidCost
	}

	remaining, err := s.repo.Deduct(ctx, userID, cost)
	if err != nil {
		return 0, err
	}

	s.logger.Debug("ledger spend",
		zap.String("user_id", userID),
		zap.Int64("cost", cost),
		zap.Int64("remaining", remaining))
	return remaining, nil
}

// SetBalance overwrites the user's balance unconditionally. This is an
// administrative operation; the new balance still must not be negative.
func (s *Service) SetBalance(ctx context.Context, userID string, balance int64) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	if balance < 0 {
		return ErrNegativeBalance
	}

	if err := s.repo.SetBalance(ctx, userID, balance); err != nil {
		return err
	}

	s.logger.Info("ledger balance set",
		zap.String("user_id", userID),
		zap.Int64("balance", balance))
	return nil
}
