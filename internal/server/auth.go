package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"donationhub/pkg/types"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) handlePostRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !required(req.Name) || !required(req.Email) || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	hash, err := s.credentials.HashPassword(req.Password)
	if err != nil {
		s.internalServerError(w, err, "failed to hash password")
		return
	}

	user := &types.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	err = s.users.Create(ctx, user)
	if errors.Is(err, types.ErrUserExists) {
		s.writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		s.internalServerError(w, err, "failed to register user")
		return
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")

	if _, ok := s.issueSession(w, user); !ok {
		return
	}

	s.writeJSON(w, http.StatusCreated, envelope{
		"success": true,
		"message": "User registered successfully",
	})
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !required(req.Email) || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	user, err := s.users.UserByEmail(ctx, normalizeEmail(req.Email))
	switch {
	case errors.Is(err, types.ErrUserNotFound):
		err = s.credentials.RejectUnknownUser(req.Password)
	case err != nil:
		s.internalServerError(w, err, "failed to look up user")
		return
	default:
		err = s.credentials.VerifyPassword(user.PasswordHash, req.Password)
	}

	if errors.Is(err, types.ErrInvalidCredentials) {
		s.writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		s.internalServerError(w, err, "failed to verify password")
		return
	}

	token, ok := s.issueSession(w, user)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Login successful",
		"token":   token,
	})
}

func (s *Service) handlePostLogout(w http.ResponseWriter, _ *http.Request) {
	s.clearAuthCookie(w)

	s.writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Logout successful",
	})
}

// issueSession signs a token for user and sets it as the auth cookie. The
// same token, with the same expiry, is returned for use as a bearer token.
// On failure a 500 has already been written.
func (s *Service) issueSession(w http.ResponseWriter, user *types.User) (string, bool) {
	token, expiresAt, err := s.credentials.Issue(user.ID, user.Email)
	if err != nil {
		s.internalServerError(w, err, "failed to issue token")
		return "", false
	}

	encoded, err := s.cookie.Encode(s.config.CookieName, token)
	if err != nil {
		s.internalServerError(w, err, "failed to encode auth cookie")
		return "", false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: s.cookieSameSite(),
		Path:     "/",
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Expires:  expiresAt,
	})

	return token, true
}

func (s *Service) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: s.cookieSameSite(),
		Path:     "/",
		MaxAge:   -1,
	})
}

func (s *Service) secureCookies() bool {
	return s.config.Environment != "development"
}

// cookieSameSite allows the auth cookie on credentialed cross-origin
// requests from the configured origin. Browsers only accept SameSite=None on
// secure cookies, so development falls back to Lax.
func (s *Service) cookieSameSite() http.SameSite {
	if s.secureCookies() {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
