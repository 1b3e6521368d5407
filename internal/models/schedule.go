package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Schedule is a published snapshot of the rendered schedule document. Rows
// are write-once: the newest created_at is the current schedule and older
// rows are retained as history.
type Schedule struct {
	bun.BaseModel `bun:"table:schedules"`

	ID        string    `bun:"id,pk" json:"id"`
	HTML      string    `bun:"html,notnull" json:"html"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func (s Schedule) String() string {
	return fmt.Sprintf("Schedule created at %s", s.CreatedAt.Format("2006-01-02 15:04:05"))
}
