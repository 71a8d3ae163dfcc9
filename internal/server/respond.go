package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxJSONBodyBytes = 1 << 20

type envelope map[string]any

// writeJSON encodes body before committing status, so a body that cannot be
// encoded turns into a 500 instead of a truncated success.
func (s *Service) writeJSON(w http.ResponseWriter, status int, body envelope) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to encode json response")

		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(envelope{
			"success": false,
			"message": "Internal server error",
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.WithError(err).Error("failed to write json response")
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, envelope{
		"success": false,
		"message": message,
	})
}

// internalServerError logs err and answers with a generic 500. The
// underlying error is never sent to the client.
func (s *Service) internalServerError(w http.ResponseWriter, err error, msg string) {
	s.logger.WithError(err).Error(msg)
	s.writeError(w, http.StatusInternalServerError, "Internal server error")
}

// decodeJSON reads a single JSON object from the request body into dst. An
// empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))

	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}

	if dec.More() {
		return fmt.Errorf("decode request body: unexpected data after json object")
	}

	return nil
}

func required(v string) bool {
	return strings.TrimSpace(v) != ""
}
