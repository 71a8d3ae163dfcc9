package server

import (
	"net/http"
	"strings"

	"donationhub/pkg/types"
)

const maxLeaderboardLimit = 100

type leaderboardQuery struct {
	Limit *int `form:"limit"`
}

type topDonorRequest struct {
	UserID      string   `json:"userId"`
	TotalAmount *float64 `json:"totalAmount"`
}

// handleGetLeaderboard recomputes the leaderboard from every donation,
// replaces the stored snapshot and returns it.
func (s *Service) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	var query leaderboardQuery
	if err := decoder.Decode(&query, r.URL.Query()); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	limit := s.config.LeaderboardLimit
	if query.Limit != nil {
		if *query.Limit < 1 || *query.Limit > maxLeaderboardLimit {
			s.writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = *query.Limit
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	donors, err := s.leaderboard.RecomputeAndFetch(ctx, limit)
	if err != nil {
		s.internalServerError(w, err, "failed to recompute leaderboard")
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"success":     true,
		"message":     "Leaderboard data retrieved successfully",
		"leaderboard": donors,
	})
}

func (s *Service) handlePostTopDonor(w http.ResponseWriter, r *http.Request) {
	var req topDonorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !required(req.UserID) || req.TotalAmount == nil {
		s.writeError(w, http.StatusBadRequest, "userId and totalAmount are required")
		return
	}

	donor := &types.TopDonor{
		UserID:      strings.TrimSpace(req.UserID),
		TotalAmount: *req.TotalAmount,
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	if err := s.topDonors.CreateTopDonor(ctx, donor); err != nil {
		s.internalServerError(w, err, "failed to add top donor")
		return
	}

	s.writeJSON(w, http.StatusCreated, envelope{
		"success":    true,
		"message":    "Top donor added successfully",
		"topDonorId": donor.ID,
	})
}
