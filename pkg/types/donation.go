package types

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrDonationNotFound = errors.New("donation not found")

type Donation struct {
	ID          string          `db:"id" json:"_id"`
	Image       *string         `db:"image" json:"image"`
	Category    *string         `db:"category" json:"category"`
	Title       *string         `db:"title" json:"title"`
	Amount      json.RawMessage `db:"amount" json:"amount"`
	Description *string         `db:"description" json:"description"`
	UserID      *string         `db:"user_id" json:"userId,omitempty"`
	RecordedAt  time.Time       `db:"recorded_at" json:"timestamp"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// DonationFields is the mutable part of a donation. An edit replaces all of
// them at once; absent fields are cleared.
type DonationFields struct {
	Image       *string         `json:"image"`
	Category    *string         `json:"category"`
	Title       *string         `json:"title"`
	Amount      json.RawMessage `json:"amount"`
	Description *string         `json:"description"`
}

type DonationFilter struct {
	Category string `form:"category"`
	UserID   string `form:"userId"`
}

// DonorAmount is the projection of a donation the leaderboard aggregates over.
type DonorAmount struct {
	UserID *string         `db:"user_id"`
	Amount json.RawMessage `db:"amount"`
}
