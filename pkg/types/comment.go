package types

import "time"

type Comment struct {
	ID         string    `db:"id" json:"_id"`
	Text       *string   `db:"text" json:"text"`
	RecordedAt time.Time `db:"recorded_at" json:"timestamp"`
}
