package server

import (
	"net/http"

	"donationhub/pkg/types"
)

type commentRequest struct {
	Text *string `json:"text"`
}

type volunteerRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

func (s *Service) handlePostComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment := &types.Comment{Text: req.Text}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		s.internalServerError(w, err, "failed to post comment")
		return
	}

	s.writeJSON(w, http.StatusCreated, envelope{
		"success":   true,
		"message":   "Comment posted successfully",
		"commentId": comment.ID,
	})
}

func (s *Service) handleGetComments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.storeContext(r)
	defer cancel()

	comments, err := s.comments.Comments(ctx)
	if err != nil {
		s.internalServerError(w, err, "failed to fetch comments")
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"success":  true,
		"comments": comments,
	})
}

func (s *Service) handlePostVolunteer(w http.ResponseWriter, r *http.Request) {
	var req volunteerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	volunteer := &types.Volunteer{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	if err := s.volunteers.CreateVolunteer(ctx, volunteer); err != nil {
		s.internalServerError(w, err, "failed to sign up volunteer")
		return
	}

	s.writeJSON(w, http.StatusCreated, envelope{
		"success":     true,
		"message":     "Volunteer signed up successfully",
		"volunteerId": volunteer.ID,
	})
}

func (s *Service) handleGetVolunteers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.storeContext(r)
	defer cancel()

	volunteers, err := s.volunteers.Volunteers(ctx)
	if err != nil {
		s.internalServerError(w, err, "failed to fetch volunteers")
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"success":    true,
		"volunteers": volunteers,
	})
}
