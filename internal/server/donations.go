package server

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"donationhub/internal/storage"
	"donationhub/internal/utils"
	"donationhub/pkg/types"
)

const maxImageBytes = 10 << 20

// donationID reads and validates the :id path parameter. On failure a 400
// has already been written.
func (s *Service) donationID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !utils.ValidNanoID(id) {
		s.writeError(w, http.StatusBadRequest, "Invalid donation id")
		return "", false
	}
	return id, true
}

func (s *Service) handlePostDonation(w http.ResponseWriter, r *http.Request) {
	var fields types.DonationFields
	if err := decodeJSON(w, r, &fields); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	donation := &types.Donation{
		Image:       fields.Image,
		Category:    fields.Category,
		Title:       fields.Title,
		Amount:      fields.Amount,
		Description: fields.Description,
	}

	if identity, ok := identityFromContext(r.Context()); ok {
		donation.UserID = utils.StringPtr(identity.UserID)
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	if err := s.donations.CreateDonation(ctx, donation); err != nil {
		s.internalServerError(w, err, "failed to create donation")
		return
	}

	s.writeJSON(w, http.StatusCreated, envelope{
		"success":    true,
		"message":    "Donation created successfully",
		"donationId": donation.ID,
	})
}

func (s *Service) handleGetDonations(w http.ResponseWriter, r *http.Request) {
	var filter types.DonationFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	donations, err := s.donations.Donations(ctx, filter)
	if err != nil {
		s.internalServerError(w, err, "failed to retrieve donations")
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"success":   true,
		"donations": donations,
	})
}

func (s *Service) handleGetDonation(w http.ResponseWriter, r *http.Request) {
	donationID, ok := s.donationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	donation, err := s.donations.Donation(ctx, donationID)
	if errors.Is(err, types.ErrDonationNotFound) {
		s.writeError(w, http.StatusNotFound, "Donation not found")
		return
	}
	if err != nil {
		s.internalServerError(w, err, "failed to retrieve donation")
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"success":  true,
		"donation": donation,
	})
}

func (s *Service) handlePutDonation(w http.ResponseWriter, r *http.Request) {
	donationID, ok := s.donationID(w, r)
	if !ok {
		return
	}

	var fields types.DonationFields
	if err := decodeJSON(w, r, &fields); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	err := s.donations.UpdateDonation(ctx, donationID, &fields)
	if errors.Is(err, types.ErrDonationNotFound) {
		s.writeError(w, http.StatusNotFound, "Donation not found")
		return
	}
	if err != nil {
		s.internalServerError(w, err, "failed to update donation")
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Donation updated successfully",
	})
}

func (s *Service) handleDeleteDonation(w http.ResponseWriter, r *http.Request) {
	donationID, ok := s.donationID(w, r)
	if !ok {
		return
	}

	ctx, cancel := s.storeContext(r)
	defer cancel()

	err := s.donations.DeleteDonation(ctx, donationID)
	if errors.Is(err, types.ErrDonationNotFound) {
		s.writeError(w, http.StatusNotFound, "Donation not found")
		return
	}
	if err != nil {
		s.internalServerError(w, err, "failed to delete donation")
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Donation deleted successfully",
	})
}

// handlePostDonationImage uploads the multipart "image" file and points the
// donation's image at it. The object is removed again if the donation does
// not exist.
func (s *Service) handlePostDonationImage(w http.ResponseWriter, r *http.Request) {
	donationID, ok := s.donationID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+(1<<20))
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "Unable to read image")
		return
	}

	contentType := http.DetectContentType(sniff[:n])
	if !strings.HasPrefix(contentType, "image/") {
		s.writeError(w, http.StatusBadRequest, "File must be an image")
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		s.internalServerError(w, err, "failed to rewind image upload")
		return
	}

	key := storage.ImageKey(donationID, utils.NanoID(), path.Ext(header.Filename))

	ctx, cancel := s.storeContext(r)
	defer cancel()

	url, err := s.images.Upload(ctx, key, file, contentType)
	if err != nil {
		s.internalServerError(w, err, "failed to upload donation image")
		return
	}

	err = s.donations.SetDonationImage(ctx, donationID, url)
	if err != nil {
		if deleteErr := s.images.Delete(ctx, key); deleteErr != nil {
			s.logger.WithError(deleteErr).WithField("key", key).Warn("failed to remove orphaned donation image")
		}

		if errors.Is(err, types.ErrDonationNotFound) {
			s.writeError(w, http.StatusNotFound, "Donation not found")
			return
		}

		s.internalServerError(w, err, "failed to set donation image")
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Donation image uploaded successfully",
		"image":   url,
	})
}
