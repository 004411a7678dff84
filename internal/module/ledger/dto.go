package ledger

// CreateUserRequest is the payload for registering a user in the ledger.
type CreateUserRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// SetBalanceRequest is the payload for the administrative balance overwrite.
// Balance is a pointer so an explicit zero passes required validation.
type SetBalanceRequest struct {
	Balance *int64 `json:"balance" binding:"required,gte=0"`
}

// BalanceResponse reports a user's remaining balance.
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// ToBalanceResponse converts a ledger entry to its response form.
func (e *Entry) ToBalanceResponse() *BalanceResponse {
	return &BalanceResponse{
		UserID:  e.UserID,
		Balance: e.Balance,
	}
}
