package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code        apperrors.Code `json:"code"`
	Message     string         `json:"message"`
	Conflicts   []string       `json:"conflicts,omitempty"`
	OutOfBounds bool           `json:"out_of_bounds,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v) //nolint:errcheck
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	body := errorBody{
		Code:    apperrors.GetCode(err),
		Message: apperrors.UserMessage(err),
	}
	if body.Code == "" {
		body.Code = apperrors.ErrCodeInternal
	}
	var pe *apperrors.PlacementError
	if errors.As(err, &pe) {
		body.Conflicts = pe.ConflictIDs
		body.OutOfBounds = pe.OutOfBounds
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		body.Message = http.StatusText(status)
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a bounded JSON body into v. Unknown fields are rejected.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "request body is empty")
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
