package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one user's row in the usage ledger. Balance is the number of
// paid operations the user may still run; it never goes below zero.
type Entry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string    `json:"user_id" gorm:"type:varchar(255);uniqueIndex;not null"`
	Balance   int64     `json:"balance" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name used by GORM.
func (Entry) TableName() string {
	return "usage_ledger"
}
