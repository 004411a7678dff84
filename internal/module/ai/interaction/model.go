package interaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Record is one append-only row describing a charged operation attempt.
// Status is "ok" or the error class of a post-spend failure.
type Record struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        string         `json:"user_id" gorm:"type:varchar(255);index;not null"`
	Kind          string         `json:"kind" gorm:"type:varchar(32);not null"`
	SubType       string         `json:"sub_type" gorm:"type:varchar(32)"`
	PromptChars   int            `json:"prompt_chars"`
	OutputChars   int            `json:"output_chars"`
	Cost          int64          `json:"cost"`
	Status        string         `json:"status" gorm:"type:varchar(32);not null"`
	ContextLabels pq.StringArray `json:"context_labels" gorm:"type:text[]"`
	CreatedAt     time.Time      `json:"created_at"`
}

// TableName overrides the table name used by GORM.
func (Record) TableName() string {
	return "interactions"
}
