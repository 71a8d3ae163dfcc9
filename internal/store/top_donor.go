package store

import (
	"context"
	"fmt"
	"time"

	"donationhub/internal/utils"
	"donationhub/pkg/types"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

const topDonorTableName = "donationhub.top_donors"

// Key for the transaction-scoped advisory lock serialising snapshot rewrites.
const topDonorsLockKey int64 = 0x746f70646f6e6f72

var topDonorColumns = utils.StructTagValues(types.TopDonor{})

type TopDonorRepository struct {
	pool DB
}

func NewTopDonorRepository(pool DB) *TopDonorRepository {
	return &TopDonorRepository{pool: pool}
}

// TopDonors returns the persisted snapshot in rank order.
func (r *TopDonorRepository) TopDonors(ctx context.Context) ([]*types.TopDonor, error) {
	query, args, err := psql().
		Select(topDonorColumns...).
		From(topDonorTableName).
		OrderBy("rank ASC", "total_amount DESC", "user_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate top donors query: %w", err)
	}

	var donors = make([]*types.TopDonor, 0)
	err = pgxscan.Select(ctx, r.pool, &donors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top donors: %w", err)
	}

	return donors, nil
}

// CreateTopDonor appends a single entry to the snapshot. It lives only until
// the next ReplaceTopDonors.
func (r *TopDonorRepository) CreateTopDonor(ctx context.Context, donor *types.TopDonor) error {
	donor.ID = utils.NanoID()
	if donor.ComputedAt.IsZero() {
		donor.ComputedAt = time.Now()
	}

	query, args, err := psql().
		Insert(topDonorTableName).
		SetMap(utils.StructToMap(donor)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert top donor query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create top donor")
}

// ReplaceTopDonors swaps the whole snapshot for donors inside one
// transaction. Concurrent readers keep seeing the previous snapshot until
// commit; concurrent replacements queue on an advisory lock. On any failure
// the previous snapshot is left untouched.
func (r *TopDonorRepository) ReplaceTopDonors(ctx context.Context, donors []*types.TopDonor) error {
	for _, donor := range donors {
		if donor.ID == "" {
			donor.ID = utils.NanoID()
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin top donors transaction: %w", err)
	}

	if err := replaceTopDonors(ctx, tx, donors); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit top donors: %w", err)
	}

	return nil
}

func replaceTopDonors(ctx context.Context, tx pgx.Tx, donors []*types.TopDonor) error {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", topDonorsLockKey); err != nil {
		return fmt.Errorf("failed to lock top donors: %w", err)
	}

	query, args, err := psql().Delete(topDonorTableName).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete top donors query: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear top donors: %w", err)
	}

	if len(donors) == 0 {
		return nil
	}

	insert := psql().
		Insert(topDonorTableName).
		Columns("id", "user_id", "total_amount", "rank", "computed_at")
	for _, donor := range donors {
		insert = insert.Values(donor.ID, donor.UserID, donor.TotalAmount, donor.Rank, donor.ComputedAt)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert top donors query: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert top donors: %w", err)
	}

	return nil
}
