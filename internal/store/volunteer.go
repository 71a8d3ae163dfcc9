package store

import (
	"context"
	"fmt"
	"time"

	"donationhub/internal/utils"
	"donationhub/pkg/types"

	"github.com/georgysavva/scany/v2/pgxscan"
)

const volunteerTableName = "donationhub.volunteers"

var volunteerColumns = utils.StructTagValues(types.Volunteer{})

type VolunteerRepository struct {
	pool DB
}

func NewVolunteerRepository(pool DB) *VolunteerRepository {
	return &VolunteerRepository{pool: pool}
}

func (r *VolunteerRepository) CreateVolunteer(ctx context.Context, volunteer *types.Volunteer) error {
	volunteer.ID = utils.NanoID()
	volunteer.RecordedAt = time.Now()

	query, args, err := psql().
		Insert(volunteerTableName).
		SetMap(utils.StructToMap(volunteer)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert volunteer query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create volunteer")
}

func (r *VolunteerRepository) Volunteers(ctx context.Context) ([]*types.Volunteer, error) {
	query, args, err := psql().
		Select(volunteerColumns...).
		From(volunteerTableName).
		OrderBy("recorded_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate volunteers query: %w", err)
	}

	var volunteers = make([]*types.Volunteer, 0)
	err = pgxscan.Select(ctx, r.pool, &volunteers, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteers: %w", err)
	}

	return volunteers, nil
}
