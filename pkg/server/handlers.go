package server

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/myseum/pkg/gallery"
	"github.com/matzehuels/myseum/pkg/placement"
	"github.com/matzehuels/myseum/pkg/wall"
)

// checkResponse is the body of POST /check.
type checkResponse struct {
	State       placement.State `json:"state"`
	Conflicts   []string        `json:"conflicts"`
	OutOfBounds bool            `json:"out_of_bounds"`
	GrowsTo     int             `json:"grows_to,omitempty"`
}

type addResponse struct {
	Wall *wall.Wall `json:"wall"`
	Item wall.Item  `json:"item"`
}

type resizeRequest struct {
	Edge placement.Edge `json:"edge"`
	DX   int            `json:"dx"`
	DY   int            `json:"dy"`
}

func (s *Server) handleListWalls(w http.ResponseWriter, r *http.Request) {
	walls, err := s.svc.ListWalls(r.Context(), sessionFrom(r.Context()), r.URL.Query().Get("owner"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if walls == nil {
		walls = []wall.Summary{}
	}
	writeJSON(w, http.StatusOK, walls)
}

func (s *Server) handleCreateWall(w http.ResponseWriter, r *http.Request) {
	var req gallery.CreateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.svc.CreateWall(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/walls/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	f, err := formatParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	imported, err := s.svc.Import(r.Context(), sessionFrom(r.Context()), http.MaxBytesReader(w, r.Body, s.maxBody), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, imported)
}

func (s *Server) handleGetWall(w http.ResponseWriter, r *http.Request) {
	got, err := s.svc.GetWall(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "wallID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

func (s *Server) handleUpdateWall(w http.ResponseWriter, r *http.Request) {
	var req gallery.UpdateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.svc.UpdateWall(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "wallID"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteWall(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteWall(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "wallID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := formatParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Buffer so that an error can still produce a JSON error response.
	var buf bytes.Buffer
	if err := s.svc.Export(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "wallID"), &buf, f); err != nil {
		s.writeError(w, r, err)
		return
	}
	if f == wall.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w) //nolint:errcheck
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	fitted, err := s.svc.Fit(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "wallID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fitted)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var item wall.Item
	if err := s.decodeJSON(w, r, &item); err != nil {
		s.writeError(w, r, err)
		return
	}
	fb, err := s.svc.Check(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "wallID"), item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	conflicts := fb.ConflictIDs()
	if conflicts == nil {
		conflicts = []string{}
	}
	writeJSON(w, http.StatusOK, checkResponse{
		State:       fb.State,
		Conflicts:   conflicts,
		OutOfBounds: fb.OutOfBounds,
		GrowsTo:     fb.GrowsTo,
	})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req gallery.AddRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, item, err := s.svc.AddArtwork(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "wallID"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, addResponse{Wall: updated, Item: item})
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	updated, err := s.svc.RemoveItem(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "wallID"), chi.URLParam(r, "itemID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	var delta placement.Delta
	if err := s.decodeJSON(w, r, &delta); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.svc.MoveItem(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "wallID"), chi.URLParam(r, "itemID"), delta)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleResizeItem(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.svc.ResizeItem(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "wallID"), chi.URLParam(r, "itemID"),
		req.Edge, placement.Delta{DX: req.DX, DY: req.DY})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// formatParam reads ?format=, defaulting to JSON.
func formatParam(r *http.Request) (wall.Format, error) {
	v := r.URL.Query().Get("format")
	if v == "" {
		return wall.FormatJSON, nil
	}
	return wall.ParseFormat(v)
}
