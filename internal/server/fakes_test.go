package server

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"donationhub/internal/utils"
	"donationhub/pkg/types"
)

// memoryStore backs every repository interface with maps guarded by one lock.
type memoryStore struct {
	mu sync.Mutex

	users      map[string]*types.User
	donations  map[string]*types.Donation
	topDonors  []*types.TopDonor
	comments   []*types.Comment
	volunteers []*types.Volunteer
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:     make(map[string]*types.User),
		donations: make(map[string]*types.Donation),
	}
}

func (m *memoryStore) UserByEmail(_ context.Context, email string) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[email]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return user, nil
}

func (m *memoryStore) Create(_ context.Context, user *types.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Email]; ok {
		return types.ErrUserExists
	}

	user.ID = utils.NanoID()
	user.CreatedAt = time.Now()
	m.users[user.Email] = user
	return nil
}

func (m *memoryStore) Donation(_ context.Context, donationID string) (*types.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation, ok := m.donations[donationID]
	if !ok {
		return nil, types.ErrDonationNotFound
	}
	return donation, nil
}

func (m *memoryStore) Donations(_ context.Context, filter types.DonationFilter) ([]*types.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	donations := make([]*types.Donation, 0, len(m.donations))
	for _, d := range m.donations {
		if filter.Category != "" && utils.PtrString(d.Category) != filter.Category {
			continue
		}
		if filter.UserID != "" && utils.PtrString(d.UserID) != filter.UserID {
			continue
		}
		donations = append(donations, d)
	}

	sort.Slice(donations, func(i, j int) bool {
		return donations[i].ID < donations[j].ID
	})

	return donations, nil
}

func (m *memoryStore) DonorAmounts(context.Context) ([]*types.DonorAmount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	amounts := make([]*types.DonorAmount, 0, len(m.donations))
	for _, d := range m.donations {
		amounts = append(amounts, &types.DonorAmount{UserID: d.UserID, Amount: d.Amount})
	}
	return amounts, nil
}

func (m *memoryStore) CreateDonation(_ context.Context, donation *types.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation.ID = utils.NanoID()
	donation.RecordedAt = time.Now()
	donation.CreatedAt = donation.RecordedAt
	m.donations[donation.ID] = donation
	return nil
}

func (m *memoryStore) UpdateDonation(_ context.Context, donationID string, fields *types.DonationFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation, ok := m.donations[donationID]
	if !ok {
		return types.ErrDonationNotFound
	}

	donation.Image = fields.Image
	donation.Category = fields.Category
	donation.Title = fields.Title
	donation.Amount = fields.Amount
	donation.Description = fields.Description
	donation.RecordedAt = time.Now()
	return nil
}

func (m *memoryStore) SetDonationImage(_ context.Context, donationID, image string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation, ok := m.donations[donationID]
	if !ok {
		return types.ErrDonationNotFound
	}

	donation.Image = utils.StringPtr(image)
	return nil
}

func (m *memoryStore) DeleteDonation(_ context.Context, donationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.donations[donationID]; !ok {
		return types.ErrDonationNotFound
	}

	delete(m.donations, donationID)
	return nil
}

func (m *memoryStore) TopDonors(context.Context) ([]*types.TopDonor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.topDonors, nil
}

func (m *memoryStore) CreateTopDonor(_ context.Context, donor *types.TopDonor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donor.ID = utils.NanoID()
	donor.ComputedAt = time.Now()
	m.topDonors = append(m.topDonors, donor)
	return nil
}

func (m *memoryStore) ReplaceTopDonors(_ context.Context, donors []*types.TopDonor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range donors {
		d.ID = utils.NanoID()
	}
	m.topDonors = donors
	return nil
}

func (m *memoryStore) CreateComment(_ context.Context, comment *types.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	comment.ID = utils.NanoID()
	comment.RecordedAt = time.Now()
	m.comments = append(m.comments, comment)
	return nil
}

func (m *memoryStore) Comments(context.Context) ([]*types.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.comments, nil
}

func (m *memoryStore) CreateVolunteer(_ context.Context, volunteer *types.Volunteer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	volunteer.ID = utils.NanoID()
	volunteer.RecordedAt = time.Now()
	m.volunteers = append(m.volunteers, volunteer)
	return nil
}

func (m *memoryStore) Volunteers(context.Context) ([]*types.Volunteer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volunteers, nil
}

type memoryImages struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryImages) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return "https://images.test/" + key, nil
}

func (m *memoryImages) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}
