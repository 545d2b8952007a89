package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/fontastic/pkg/buildinfo"
	"github.com/matzehuels/fontastic/pkg/errors"
	"github.com/matzehuels/fontastic/pkg/pipeline"
	"github.com/matzehuels/fontastic/pkg/session"
	"github.com/matzehuels/fontastic/pkg/suggest"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// designPatch is the PATCH /api/design body. Absent fields are left alone.
type designPatch struct {
	Text     *string  `json:"text"`
	FontSize *int     `json:"fontSize"`
	Spacing  *float64 `json:"spacing"`
}

type dataURIResponse struct {
	FileName string `json:"fileName"`
	DataURI  string `json:"dataUri"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFromContext(r.Context()).Design)
}

func (s *Server) handlePatchDesign(w http.ResponseWriter, r *http.Request) {
	var patch designPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	sess := sessionFromContext(r.Context())
	if patch.Text != nil {
		sess.Design.SetText(*patch.Text)
	}
	if patch.FontSize != nil {
		sess.Design.SetFontSize(*patch.FontSize)
	}
	if patch.Spacing != nil {
		sess.Design.SetSpacing(*patch.Spacing)
	}

	if !s.save(w, r, sess) {
		return
	}
	writeJSON(w, http.StatusOK, sess.Design)
}

func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if err := s.runner.ApplySuggestion(&sess.Design); err != nil {
		writeError(w, http.StatusConflict, errors.UserMessage(err))
		return
	}
	if !s.save(w, r, sess) {
		return
	}
	writeJSON(w, http.StatusOK, sess.Design)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	// Absent fields default to the session's design.
	sess := sessionFromContext(r.Context())
	req, err := suggest.DecodeRequest(data, suggest.RequestFor(sess.Design))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.UserMessage(err))
		return
	}

	opts := pipeline.SuggestOptions{Text: &req.Text, Font: &req.Font, Spacing: &req.Spacing}
	sug, err := s.runner.RequestSuggestion(r.Context(), &sess.Design, opts)

	if errors.Is(err, errors.ErrCodeInvalidInput) {
		writeError(w, http.StatusBadRequest, errors.UserMessage(err))
		return
	}
	// Success sets the suggestion and failure clears it; both are saved.
	if !s.save(w, r, sess) {
		return
	}
	if err != nil {
		writeError(w, suggestStatus(err), errors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, sug)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unsupported export format %q.", format))
		return
	}

	sess := sessionFromContext(r.Context())
	dl, err := s.runner.Export(r.Context(), sess.Design, format)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if !errors.IsExport(err) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, errors.UserMessage(err))
		return
	}

	if r.URL.Query().Get("format") == "datauri" {
		writeJSON(w, http.StatusOK, dataURIResponse{FileName: dl.FileName, DataURI: dl.DataURI()})
		return
	}

	w.Header().Set("Content-Type", dl.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, dl.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dl.Data)
}

// save persists sess, writing a 500 response and returning false on error.
func (s *Server) save(w http.ResponseWriter, r *http.Request, sess *session.Session) bool {
	if err := session.Save(r.Context(), s.store, sess, s.ttl); err != nil {
		s.logger.Error("save session", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not save your design.")
		return false
	}
	return true
}

// suggestStatus maps a suggestion failure to a status code.
func suggestStatus(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeInvalidConfig):
		return http.StatusServiceUnavailable
	case errors.IsService(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeBody decodes a JSON body into v, writing a 400 response and
// returning false on error. An empty body leaves v unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
