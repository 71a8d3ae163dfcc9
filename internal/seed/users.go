package seed

import (
	"context"
	"errors"
	"fmt"

	"donationhub/pkg/types"
)

// DemoPassword is the password every seeded user logs in with.
const DemoPassword = "donate-demo-123"

type UserRepository interface {
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	Create(ctx context.Context, user *types.User) error
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type demoUserSeed struct {
	Name  string
	Email string
}

var demoUsers = []demoUserSeed{
	{Name: "Ava Williams", Email: "ava.williams+seed1@example.com"},
	{Name: "Liam Johnson", Email: "liam.johnson+seed2@example.com"},
	{Name: "Noah Brown", Email: "noah.brown+seed3@example.com"},
	{Name: "Mia Davis", Email: "mia.davis+seed4@example.com"},
	{Name: "Elijah Garcia", Email: "elijah.garcia+seed5@example.com"},
	{Name: "Olivia Miller", Email: "olivia.miller+seed6@example.com"},
}

// SeedUsers makes sure every demo user exists and returns them all, whether
// they were created now or by an earlier run.
func SeedUsers(ctx context.Context, userRepo UserRepository, hasher PasswordHasher) ([]*types.User, error) {
	users := make([]*types.User, 0, len(demoUsers))
	created := 0

	for _, demo := range demoUsers {
		existing, err := userRepo.UserByEmail(ctx, demo.Email)
		if err == nil {
			users = append(users, existing)
			continue
		}
		if !errors.Is(err, types.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to fetch demo user %s: %w", demo.Email, err)
		}

		hash, err := hasher.HashPassword(DemoPassword)
		if err != nil {
			return nil, err
		}

		user := &types.User{
			Name:         demo.Name,
			Email:        demo.Email,
			PasswordHash: hash,
		}

		err = userRepo.Create(ctx, user)
		if errors.Is(err, types.ErrUserExists) {
			// created concurrently by another seed run
			existing, err = userRepo.UserByEmail(ctx, demo.Email)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch demo user %s: %w", demo.Email, err)
			}
			users = append(users, existing)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create demo user %s: %w", demo.Email, err)
		}

		users = append(users, user)
		created++
	}

	fmt.Printf("Demo users seeded: %d created, %d already present\n", created, len(users)-created)
	return users, nil
}
