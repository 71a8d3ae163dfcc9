package types

import "time"

type Volunteer struct {
	ID         string    `db:"id" json:"_id"`
	Name       *string   `db:"name" json:"name"`
	Email      *string   `db:"email" json:"email"`
	Phone      *string   `db:"phone" json:"phone"`
	Location   *string   `db:"location" json:"location"`
	RecordedAt time.Time `db:"recorded_at" json:"timestamp"`
}
