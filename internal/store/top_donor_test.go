package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"donationhub/pkg/types"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopDonors(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTopDonorRepository(mock)

	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM donationhub\.top_donors ORDER BY rank ASC`).
		WillReturnRows(pgxmock.NewRows(topDonorColumns).
			AddRow("t1", "userA", float64(70), 1, at).
			AddRow("t2", "userB", float64(30), 2, at))

	donors, err := repo.TopDonors(context.Background())
	require.NoError(t, err)
	require.Len(t, donors, 2)
	assert.Equal(t, "userA", donors[0].UserID)
	assert.Equal(t, float64(70), donors[0].TotalAmount)
	assert.Equal(t, 2, donors[1].Rank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTopDonor(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTopDonorRepository(mock)

	// computed_at, id, rank, total_amount, user_id
	mock.ExpectExec(`INSERT INTO donationhub\.top_donors \(computed_at,id,rank,total_amount,user_id\)`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 0, float64(10), "userA").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	donor := &types.TopDonor{UserID: "userA", TotalAmount: 10}
	require.NoError(t, repo.CreateTopDonor(context.Background(), donor))
	assert.NotEmpty(t, donor.ID)
	assert.False(t, donor.ComputedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTopDonors(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTopDonorRepository(mock)

	at := time.Now()
	donors := []*types.TopDonor{
		{UserID: "userA", TotalAmount: 70, Rank: 1, ComputedAt: at},
		{UserID: "userB", TotalAmount: 30, Rank: 2, ComputedAt: at},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(topDonorsLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM donationhub.top_donors")).
		WillReturnResult(pgxmock.NewResult("DELETE", 5))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO donationhub.top_donors (id,user_id,total_amount,rank,computed_at) VALUES ($1,$2,$3,$4,$5),($6,$7,$8,$9,$10)")).
		WithArgs(
			pgxmock.AnyArg(), "userA", float64(70), 1, at,
			pgxmock.AnyArg(), "userB", float64(30), 2, at,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceTopDonors(context.Background(), donors))
	assert.NotEmpty(t, donors[0].ID)
	assert.NotEqual(t, donors[0].ID, donors[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTopDonorsEmpty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTopDonorRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(topDonorsLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM donationhub.top_donors")).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceTopDonors(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTopDonorsRollsBackOnInsertFailure(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTopDonorRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(topDonorsLockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM donationhub.top_donors")).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO donationhub.top_donors")).
		WithArgs(pgxmock.AnyArg(), "userA", float64(1), 1, pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.ReplaceTopDonors(context.Background(), []*types.TopDonor{{UserID: "userA", TotalAmount: 1, Rank: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTopDonorsBeginFailure(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTopDonorRepository(mock)

	mock.ExpectBegin().WillReturnError(errors.New("no connections"))

	err := repo.ReplaceTopDonors(context.Background(), nil)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
