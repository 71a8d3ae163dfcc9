// Package auth hashes passwords and issues the signed bearer tokens that
// identify a user to the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"donationhub/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost = 10

	claimUserID = "user_id"
)

type Credentials struct {
	secret []byte
	expiry time.Duration
	cost   int

	// dummyHash is compared against when a login names an unknown email so
	// both failure paths spend the same bcrypt work.
	dummyHash []byte

	now func() time.Time
}

func New(secret string, expiry time.Duration, cost int) (*Credentials, error) {
	if secret == "" {
		return nil, fmt.Errorf("token signing secret is empty")
	}

	if expiry <= 0 {
		return nil, fmt.Errorf("token expiry must be positive, got %s", expiry)
	}

	if cost == 0 {
		cost = DefaultCost
	}

	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	dummyHash, err := bcrypt.GenerateFromPassword([]byte("donationhub-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Credentials{
		secret:    []byte(secret),
		expiry:    expiry,
		cost:      cost,
		dummyHash: dummyHash,
		now:       time.Now,
	}, nil
}

func (c *Credentials) Expiry() time.Duration {
	return c.expiry
}

func (c *Credentials) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword returns types.ErrInvalidCredentials when password does not
// match hash.
func (c *Credentials) VerifyPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return types.ErrInvalidCredentials
	}

	return fmt.Errorf("failed to verify password: %w", err)
}

// RejectUnknownUser burns the same bcrypt work as a real comparison and
// always returns types.ErrInvalidCredentials.
func (c *Credentials) RejectUnknownUser(password string) error {
	_ = bcrypt.CompareHashAndPassword(c.dummyHash, []byte(password))
	return types.ErrInvalidCredentials
}

// Issue signs an HS256 token whose subject is the user's email. Every token
// expires after the configured expiry, whether it is returned in a body or
// set as a cookie.
func (c *Credentials) Issue(userID, email string) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(c.expiry)

	token, err := jwt.NewBuilder().
		Subject(email).
		IssuedAt(now).
		Expiration(expiresAt).
		Claim(claimUserID, userID).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), c.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return string(signed), expiresAt, nil
}

// Verify checks the signature and expiry of raw and returns the identity it
// carries.
func (c *Credentials) Verify(raw string) (*types.Identity, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), c.secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(c.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidToken, err)
	}

	email, ok := token.Subject()
	if !ok || email == "" {
		return nil, fmt.Errorf("%w: missing subject", types.ErrInvalidToken)
	}

	var userID string
	if err := token.Get(claimUserID, &userID); err != nil {
		return nil, fmt.Errorf("%w: missing %s claim", types.ErrInvalidToken, claimUserID)
	}

	return &types.Identity{UserID: userID, Email: email}, nil
}
