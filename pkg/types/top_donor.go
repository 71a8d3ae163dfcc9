package types

import "time"

type TopDonor struct {
	ID          string    `db:"id" json:"_id"`
	UserID      string    `db:"user_id" json:"userId"`
	TotalAmount float64   `db:"total_amount" json:"totalAmount"`
	Rank        int       `db:"rank" json:"rank"`
	ComputedAt  time.Time `db:"computed_at" json:"timestamp"`
}
