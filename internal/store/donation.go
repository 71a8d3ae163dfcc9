package store

import (
	"context"
	"fmt"
	"time"

	"donationhub/internal/utils"
	"donationhub/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const donationTableName = "donationhub.donations"

var donationColumns = utils.StructTagValues(types.Donation{})

type DonationRepository struct {
	pool DB
}

func NewDonationRepository(pool DB) *DonationRepository {
	return &DonationRepository{pool: pool}
}

func (r *DonationRepository) Donation(ctx context.Context, donationID string) (*types.Donation, error) {
	query, args, err := psql().
		Select(donationColumns...).
		From(donationTableName).
		Where(sq.Eq{"id": donationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation query: %w", err)
	}

	var donation = new(types.Donation)
	err = pgxscan.Get(ctx, r.pool, donation, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to fetch donation: %w", err)
	}

	return donation, nil
}

func (r *DonationRepository) Donations(ctx context.Context, filter types.DonationFilter) ([]*types.Donation, error) {
	builder := psql().
		Select(donationColumns...).
		From(donationTableName).
		OrderBy("created_at ASC", "id ASC")

	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.UserID != "" {
		builder = builder.Where(sq.Eq{"user_id": filter.UserID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations query: %w", err)
	}

	var donations = make([]*types.Donation, 0)
	err = pgxscan.Select(ctx, r.pool, &donations, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donations: %w", err)
	}

	return donations, nil
}

// DonorAmounts returns the donor and raw amount of every donation that
// carries a donor identity.
func (r *DonationRepository) DonorAmounts(ctx context.Context) ([]*types.DonorAmount, error) {
	query, args, err := psql().
		Select("user_id", "amount").
		From(donationTableName).
		Where(sq.And{
			sq.NotEq{"user_id": nil},
			sq.NotEq{"user_id": ""},
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor amounts query: %w", err)
	}

	var amounts = make([]*types.DonorAmount, 0)
	err = pgxscan.Select(ctx, r.pool, &amounts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donor amounts: %w", err)
	}

	return amounts, nil
}

func (r *DonationRepository) CreateDonation(ctx context.Context, donation *types.Donation) error {

	now := time.Now()
	donation.ID = utils.NanoID()
	donation.RecordedAt = now
	donation.CreatedAt = now

	query, args, err := psql().Insert(donationTableName).SetMap(utils.StructToMap(donation)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert donation query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create donation")

}

// UpdateDonation replaces every mutable field and refreshes the timestamp in
// one statement. types.ErrDonationNotFound is returned when no row matched.
func (r *DonationRepository) UpdateDonation(ctx context.Context, donationID string, fields *types.DonationFields) error {

	query, args, err := psql().
		Update(donationTableName).
		SetMap(map[string]any{
			"image":       fields.Image,
			"category":    fields.Category,
			"title":       fields.Title,
			"amount":      fields.Amount,
			"description": fields.Description,
			"recorded_at": time.Now(),
		}).
		Where(sq.Eq{"id": donationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update donation query for donation %s: %w", donationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update donation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonationNotFound
	}

	return nil

}

func (r *DonationRepository) SetDonationImage(ctx context.Context, donationID, image string) error {

	query, args, err := psql().
		Update(donationTableName).
		Set("image", image).
		Set("recorded_at", time.Now()).
		Where(sq.Eq{"id": donationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate donation image query for donation %s: %w", donationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set donation image: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonationNotFound
	}

	return nil

}

func (r *DonationRepository) DeleteDonation(ctx context.Context, donationID string) error {

	query, args, err := psql().Delete(donationTableName).Where(sq.Eq{"id": donationID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete donation query for donation %s: %w", donationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete donation: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonationNotFound
	}

	return nil

}

// DeleteDonationsWithTitlePrefix removes every donation whose title starts
// with prefix and reports how many were removed.
func (r *DonationRepository) DeleteDonationsWithTitlePrefix(ctx context.Context, prefix string) (int64, error) {
	query, args, err := psql().
		Delete(donationTableName).
		Where(sq.Like{"title": prefix + "%"}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate delete donations query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete donations: %w", err)
	}

	return tag.RowsAffected(), nil
}
