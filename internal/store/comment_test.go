package store

import (
	"context"
	"testing"
	"time"

	"donationhub/internal/utils"
	"donationhub/pkg/types"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCommentRepository(mock)

	// SetMap orders columns alphabetically: id, recorded_at, text
	mock.ExpectExec(`INSERT INTO donationhub\.comments \(id,recorded_at,text\) VALUES \(\$1,\$2,\$3\)`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), utils.StringPtr("thank you")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	comment := &types.Comment{Text: utils.StringPtr("thank you")}
	require.NoError(t, repo.CreateComment(context.Background(), comment))
	assert.True(t, utils.ValidNanoID(comment.ID))

	at := time.Now().UTC()
	mock.ExpectQuery(`SELECT .* FROM donationhub\.comments ORDER BY recorded_at ASC`).
		WillReturnRows(pgxmock.NewRows(commentColumns).AddRow(comment.ID, comment.Text, at))

	comments, err := repo.Comments(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "thank you", utils.PtrString(comments[0].Text))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVolunteers(t *testing.T) {
	mock := newMockPool(t)
	repo := NewVolunteerRepository(mock)

	var none *string

	// email, id, location, name, phone, recorded_at
	for range 2 {
		mock.ExpectExec(`INSERT INTO donationhub\.volunteers \(email,id,location,name,phone,recorded_at\)`).
			WithArgs(utils.StringPtr("sam@example.com"), pgxmock.AnyArg(), none, utils.StringPtr("Sam"), none, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	volunteer := &types.Volunteer{Name: utils.StringPtr("Sam"), Email: utils.StringPtr("sam@example.com")}
	require.NoError(t, repo.CreateVolunteer(context.Background(), volunteer))
	again := &types.Volunteer{Name: utils.StringPtr("Sam"), Email: utils.StringPtr("sam@example.com")}
	require.NoError(t, repo.CreateVolunteer(context.Background(), again))
	assert.NotEqual(t, volunteer.ID, again.ID)

	at := time.Now().UTC()
	mock.ExpectQuery(`SELECT .* FROM donationhub\.volunteers`).
		WillReturnRows(pgxmock.NewRows(volunteerColumns).
			AddRow(volunteer.ID, volunteer.Name, volunteer.Email, none, none, at))

	volunteers, err := repo.Volunteers(context.Background())
	require.NoError(t, err)
	require.Len(t, volunteers, 1)
	assert.Nil(t, volunteers[0].Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
