package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JonMunkholm/ratings/internal/core"
	"github.com/go-chi/chi/v5"
)

// sessionResponse is the body returned by every session command.
type sessionResponse struct {
	SessionID    string          `json:"session_id"`
	Source       string          `json:"source,omitempty"`
	NeedsRebuild bool            `json:"needs_rebuild"`
	Directive    core.Directive  `json:"directive"`
	Store        json.RawMessage `json:"store"`
}

// newSessionResponse captures the session state. The store is encoded here,
// while the caller still holds the session lock.
func newSessionResponse(sess *core.Session, d core.Directive) (sessionResponse, error) {
	store, err := json.Marshal(sess.Store)
	if err != nil {
		return sessionResponse{}, err
	}
	return sessionResponse{
		SessionID:    sess.ID,
		Source:       sess.Source,
		NeedsRebuild: sess.NeedsRebuild,
		Directive:    d,
		Store:        store,
	}, nil
}

type selectRequest struct {
	Category string `json:"category"`
}

type ratingRequest struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Rating   string `json:"rating"`
}

type addItemRequest struct {
	Category string `json:"category"`
	Item     string `json:"item"`
}

// decodeJSON reads a small JSON body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.service.SessionCount(),
	})
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"ratings": core.Ratings(),
		"default": core.DefaultRating,
	})
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, core.Layouts())
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.service.CreateSession()

	sess.Lock()
	resp, err := newSessionResponse(sess, core.Render(sess))
	sess.Unlock()
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	writeJSON(w, r, http.StatusCreated, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	var resp sessionResponse
	err := s.service.WithSession(chi.URLParam(r, "sessionID"), func(sess *core.Session) error {
		var err error
		resp, err = newSessionResponse(sess, core.Render(sess))
		return err
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteSession(chi.URLParam(r, "sessionID")); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectCategory(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.execute(w, r, core.Command{Kind: core.CmdSelectCategory, Category: req.Category})
}

func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	rating, err := core.ParseRating(req.Rating)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.execute(w, r, core.Command{
		Kind:     core.CmdSetRating,
		Category: req.Category,
		Item:     req.Item,
		Rating:   rating,
	})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.execute(w, r, core.Command{Kind: core.CmdAddItem, Category: req.Category, Item: req.Item})
}

// handleLoad reads an uploaded CSV from the multipart field "file" and
// reconciles it into the session.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	table, source, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	s.execute(w, r, core.Command{Kind: core.CmdLoad, Source: source, Table: table})
}

// handlePreview reports what loading the uploaded CSV would change,
// leaving the session as it is.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	table, _, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	resp, err := s.service.Preview(chi.URLParam(r, "sessionID"), table)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// readUpload parses the multipart field "file" as CSV while holding a load
// slot. It writes the error response itself and reports false on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*core.Table, string, bool) {
	loads := s.service.Loads()
	if err := loads.Acquire(r.Context()); err != nil {
		respondError(w, r, err, statusFor(err))
		return nil, "", false
	}
	defer loads.Release()

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+(64<<10))

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondError(w, r, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err), http.StatusRequestEntityTooLarge)
			return nil, "", false
		}
		respondError(w, r, fmt.Errorf("%w: %v", core.ErrInvalidRequest, err), http.StatusBadRequest)
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, core.ErrNoFile, http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	if header.Size > maxSize {
		respondError(w, r, fmt.Errorf("%w: %d bytes", core.ErrFileTooLarge, header.Size), http.StatusRequestEntityTooLarge)
		return nil, "", false
	}

	table, err := core.ReadTable(file)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return nil, "", false
	}
	return table, header.Filename, true
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.execute(w, r, core.Command{Kind: core.CmdSave, Layout: layoutParam(r)})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.execute(w, r, core.Command{Kind: core.CmdReset})
}

// handleExport streams the session's store as a CSV download without
// touching the output directory.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	layout, err := core.GetLayout(layoutParam(r))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	err = s.service.WithSession(chi.URLParam(r, "sessionID"), func(sess *core.Session) error {
		table, err := layout.Encode(sess.Store)
		if err != nil {
			return err
		}
		return core.WriteCSV(&buf, table)
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", s.cfg.Output.Prefix, layout.Info.Key)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	writeBody(w, r, buf.Bytes())
}

// handleExportSeed returns the session's store as a YAML seed document.
func (s *Server) handleExportSeed(w http.ResponseWriter, r *http.Request) {
	var data []byte
	err := s.service.WithSession(chi.URLParam(r, "sessionID"), func(sess *core.Session) error {
		var err error
		data, err = core.MarshalSeed(sess.Store)
		return err
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	writeBody(w, r, data)
}

// execute runs cmd against the session named in the URL and writes the
// resulting directive with the session state.
func (s *Server) execute(w http.ResponseWriter, r *http.Request, cmd core.Command) {
	id := chi.URLParam(r, "sessionID")

	var resp sessionResponse
	err := s.service.WithSession(id, func(sess *core.Session) error {
		d, err := s.service.Handle(r.Context(), sess, cmd)
		if err != nil {
			return err
		}
		resp, err = newSessionResponse(sess, d)
		return err
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	status := http.StatusOK
	if resp.Directive.Kind == core.DirectiveError {
		status = http.StatusConflict
	}
	writeJSON(w, r, status, resp)
}

func layoutParam(r *http.Request) string {
	layout := strings.TrimSpace(r.URL.Query().Get("layout"))
	if layout == "" {
		return "long"
	}
	return layout
}
