package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"donationhub/internal/auth"
	"donationhub/internal/metrics"
	"donationhub/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type UserStore interface {
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	Create(ctx context.Context, user *types.User) error
}

type DonationStore interface {
	Donation(ctx context.Context, donationID string) (*types.Donation, error)
	Donations(ctx context.Context, filter types.DonationFilter) ([]*types.Donation, error)
	CreateDonation(ctx context.Context, donation *types.Donation) error
	UpdateDonation(ctx context.Context, donationID string, fields *types.DonationFields) error
	SetDonationImage(ctx context.Context, donationID, image string) error
	DeleteDonation(ctx context.Context, donationID string) error
}

type TopDonorStore interface {
	CreateTopDonor(ctx context.Context, donor *types.TopDonor) error
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *types.Comment) error
	Comments(ctx context.Context) ([]*types.Comment, error)
}

type VolunteerStore interface {
	CreateVolunteer(ctx context.Context, volunteer *types.Volunteer) error
	Volunteers(ctx context.Context) ([]*types.Volunteer, error)
}

type Leaderboard interface {
	RecomputeAndFetch(ctx context.Context, limit int) ([]*types.TopDonor, error)
}

type ImageStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service struct {
	logger      *logrus.Logger
	config      *types.Config
	credentials *auth.Credentials
	metrics     *metrics.Metrics
	cookie      *securecookie.SecureCookie

	users       UserStore
	donations   DonationStore
	topDonors   TopDonorStore
	comments    CommentStore
	volunteers  VolunteerStore
	leaderboard Leaderboard

	// nil when image uploads are not configured
	images ImageStore

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	credentials *auth.Credentials,
	metrics *metrics.Metrics,
	users UserStore,
	donations DonationStore,
	topDonors TopDonorStore,
	comments CommentStore,
	volunteers VolunteerStore,
	leaderboard Leaderboard,
	images ImageStore,
) (*Service, error) {
	mux := flow.New()

	cookie, err := newSecureCookie(config, logger)
	if err != nil {
		return nil, err
	}

	s := &Service{
		logger:      logger,
		config:      config,
		credentials: credentials,
		metrics:     metrics,
		cookie:      cookie,

		users:       users,
		donations:   donations,
		topDonors:   topDonors,
		comments:    comments,
		volunteers:  volunteers,
		leaderboard: leaderboard,
		images:      images,
	}

	s.buildRouter(mux)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.ServerPort),
		Handler:           metrics.InstrumentHandler(s.CORS(s.StripTrailingSlash(mux))),
		ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Use(s.LoggingMiddleware)
	r.Use(s.Identify)

	var routes []string
	handle := func(pattern string, fn http.HandlerFunc, methods ...string) {
		r.HandleFunc(pattern, fn, methods...)
		routes = append(routes, pattern)
	}

	handle("/", s.handleHome, http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler(), http.MethodGet)

	handle("/api/v1/register", s.handlePostRegister, http.MethodPost)
	handle("/api/v1/login", s.handlePostLogin, http.MethodPost)
	handle("/api/v1/logout", s.handlePostLogout, http.MethodPost)

	handle("/api/v1/donations", s.handlePostDonation, http.MethodPost)
	handle("/api/v1/donations", s.handleGetDonations, http.MethodGet)
	handle("/api/v1/donations/:id", s.handleGetDonation, http.MethodGet)
	handle("/api/v1/donations/:id", s.handlePutDonation, http.MethodPut)
	handle("/api/v1/donations/:id", s.handleDeleteDonation, http.MethodDelete)
	if s.images != nil {
		handle("/api/v1/donations/:id/image", s.handlePostDonationImage, http.MethodPost)
	}

	handle("/api/v1/leaderboard", s.handleGetLeaderboard, http.MethodGet)
	handle("/api/v1/top-donors", s.handlePostTopDonor, http.MethodPost)

	handle("/api/v1/comments", s.handlePostComment, http.MethodPost)
	handle("/api/v1/comments", s.handleGetComments, http.MethodGet)

	handle("/api/v1/volunteers", s.handlePostVolunteer, http.MethodPost)
	handle("/api/v1/volunteers", s.handleGetVolunteers, http.MethodGet)

	// request metrics are labelled by these templates only
	s.metrics.Routes(routes...)
}

// newSecureCookie builds the codec for the auth cookie. Without a configured
// hash key a random one is generated, so cookies do not survive a restart.
func newSecureCookie(config *types.Config, logger *logrus.Logger) (*securecookie.SecureCookie, error) {
	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode COOKIE_HASH_KEY: %w", err)
	}

	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("decode COOKIE_BLOCK_KEY: %w", err)
	}

	if len(hashKey) == 0 {
		logger.Warn("COOKIE_HASH_KEY not set, generating an ephemeral cookie key")
		hashKey = securecookie.GenerateRandomKey(32)
	}

	if len(blockKey) == 0 {
		blockKey = nil
	}

	cookie := securecookie.New(hashKey, blockKey)
	cookie.MaxAge(int(config.TokenExpiry.Seconds()))

	return cookie, nil
}

// storeContext bounds a store round trip made on behalf of r.
func (s *Service) storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.config.StoreTimeout())
}
