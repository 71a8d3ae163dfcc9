package seed

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"donationhub/internal/utils"
	"donationhub/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	byEmail map[string]*types.User
	creates int
}

func (f *fakeUsers) UserByEmail(_ context.Context, email string) (*types.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUsers) Create(_ context.Context, user *types.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return types.ErrUserExists
	}
	f.creates++
	user.ID = utils.NanoID()
	f.byEmail[user.Email] = user
	return nil
}

type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

type fakeDonations struct {
	created []*types.Donation
	reset   string
}

func (f *fakeDonations) CreateDonation(_ context.Context, donation *types.Donation) error {
	donation.ID = utils.NanoID()
	f.created = append(f.created, donation)
	return nil
}

func (f *fakeDonations) DeleteDonationsWithTitlePrefix(_ context.Context, prefix string) (int64, error) {
	f.reset = prefix
	n := int64(len(f.created))
	f.created = nil
	return n, nil
}

func TestSeedUsersIsIdempotent(t *testing.T) {
	repo := &fakeUsers{byEmail: make(map[string]*types.User)}

	first, err := SeedUsers(context.Background(), repo, plainHasher{})
	require.NoError(t, err)
	require.Len(t, first, len(demoUsers))
	assert.Equal(t, len(demoUsers), repo.creates)
	assert.Equal(t, "hashed:"+DemoPassword, first[0].PasswordHash)

	second, err := SeedUsers(context.Background(), repo, plainHasher{})
	require.NoError(t, err)
	assert.Equal(t, len(demoUsers), repo.creates)

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

type failingUsers struct{ fakeUsers }

func (f *failingUsers) UserByEmail(context.Context, string) (*types.User, error) {
	return nil, errors.New("connection refused")
}

func TestSeedUsersStoreFailure(t *testing.T) {
	_, err := SeedUsers(context.Background(), &failingUsers{}, plainHasher{})
	assert.ErrorContains(t, err, "connection refused")
}

func TestSeedDonations(t *testing.T) {
	repo := &fakeDonations{}
	donors := []*types.User{{ID: utils.NanoID()}, {ID: utils.NanoID()}}

	created, err := SeedDonations(context.Background(), repo, donors, 50, false, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, 50, created)
	require.Len(t, repo.created, 50)
	assert.Empty(t, repo.reset)

	anonymous := 0
	for _, d := range repo.created {
		assert.True(t, strings.HasPrefix(utils.PtrString(d.Title), TitlePrefix))
		assert.Greater(t, types.AmountValue(d.Amount), 0.0)

		if d.UserID == nil {
			anonymous++
			continue
		}
		assert.Contains(t, []string{donors[0].ID, donors[1].ID}, *d.UserID)
	}

	assert.Less(t, anonymous, 50)
}

func TestSeedDonationsReset(t *testing.T) {
	repo := &fakeDonations{created: []*types.Donation{{ID: "old"}}}

	created, err := SeedDonations(context.Background(), repo, nil, 0, true, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, TitlePrefix, repo.reset)
	assert.Empty(t, repo.created)
}

func TestSeedDonationsRequiresDonors(t *testing.T) {
	_, err := SeedDonations(context.Background(), &fakeDonations{}, nil, 3, false, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
