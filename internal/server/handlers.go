package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/langdiff/internal/workspace"
	"github.com/dmitrymomot/langdiff/pkg/compare"
	"github.com/dmitrymomot/langdiff/pkg/jsonv"
	"github.com/dmitrymomot/langdiff/pkg/match"
	"github.com/dmitrymomot/langdiff/pkg/render"
)

type languageJSON struct {
	Name    string `json:"name"`
	Source  string `json:"source,omitempty"`
	Error   string `json:"error,omitempty"`
	Keys    int    `json:"keys"`
	Primary bool   `json:"primary"`
}

type languagesResponse struct {
	Primary   string         `json:"primary"`
	Languages []languageJSON `json:"languages"`
	Revision  uint64         `json:"revision"`
}

func languagesOf(snap *workspace.Snapshot) languagesResponse {
	primary, _ := snap.Session.Primary()
	resp := languagesResponse{Primary: primary, Revision: snap.Revision}
	for _, l := range snap.Session.Languages() {
		lj := languageJSON{Name: l.Name, Source: l.Source, Keys: l.Flat.Len(), Primary: l.Name == primary}
		if l.Failed() {
			lj.Error = l.Err.Error()
		}
		resp.Languages = append(resp.Languages, lj)
	}
	return resp
}

func (s *Server) languages(w http.ResponseWriter, _ *http.Request) error {
	snap, err := s.ws.Snapshot()
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, languagesOf(snap))
}

type primaryRequest struct {
	Language string `json:"language"`
}

func (s *Server) setPrimary(w http.ResponseWriter, r *http.Request) error {
	var req primaryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		return errBadRequest("invalid request body", err)
	}
	if req.Language == "" {
		return errUnprocessable("language is required", nil)
	}

	snap, err := s.ws.SetPrimary(r.Context(), req.Language)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, languagesOf(snap))
}

type countsResponse struct {
	Primary  string         `json:"primary"`
	Counts   compare.Counts `json:"counts"`
	Revision uint64         `json:"revision"`
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) error {
	snap, err := s.ws.Reload(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, countsResponse{
		Primary:  snap.Report.Primary,
		Counts:   snap.Report.Counts,
		Revision: snap.Revision,
	})
}

func (s *Server) counts(w http.ResponseWriter, _ *http.Request) error {
	snap, err := s.ws.Snapshot()
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, countsResponse{
		Primary:  snap.Report.Primary,
		Counts:   snap.Report.Counts,
		Revision: snap.Revision,
	})
}

// search applies the q and status query parameters.
func (s *Server) search(r *http.Request) (*compare.Report, error) {
	filter, err := match.ParseFilter(r.URL.Query().Get("status"))
	if err != nil {
		return nil, err
	}
	return s.ws.Search(r.Context(), r.URL.Query().Get("q"), filter)
}

func (s *Server) records(w http.ResponseWriter, r *http.Request) error {
	report, err := s.search(r)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, report)
}

type subtreeResponse struct {
	Key      string      `json:"key"`
	Language string      `json:"language"`
	Status   string      `json:"status"`
	Value    jsonv.Value `json:"value"`
}

func (s *Server) subtree(w http.ResponseWriter, r *http.Request) error {
	key, lang := r.URL.Query().Get("key"), r.URL.Query().Get("lang")
	if key == "" || lang == "" {
		return errBadRequest("key and lang are required", nil)
	}

	snap, err := s.ws.Snapshot()
	if err != nil {
		return err
	}
	rec, ok := snap.Session.Record(key)
	if !ok {
		return fmt.Errorf("%w: %q", workspace.ErrUnknownKey, key)
	}

	v, err := render.Subtree(snap.Report, rec, lang)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, subtreeResponse{
		Key:      key,
		Language: lang,
		Status:   rec.Status.String(),
		Value:    v,
	})
}

func (s *Server) placeholders(w http.ResponseWriter, _ *http.Request) error {
	snap, err := s.ws.Snapshot()
	if err != nil {
		return err
	}
	mismatches := snap.Session.CheckPlaceholders()
	if mismatches == nil {
		mismatches = []compare.PlaceholderMismatch{}
	}
	return writeJSON(w, http.StatusOK, map[string]any{"mismatches": mismatches})
}

func (s *Server) renderOptions() ([]render.Option, error) {
	snap, err := s.ws.Snapshot()
	if err != nil {
		return nil, err
	}
	return []render.Option{render.WithPlaceholders(snap.Session.CheckPlaceholders())}, nil
}

func (s *Server) reportHTML(w http.ResponseWriter, r *http.Request) error {
	report, err := s.search(r)
	if err != nil {
		return err
	}
	opts, err := s.renderOptions()
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return render.HTML(w, report, opts...)
}

func (s *Server) reportMarkdown(w http.ResponseWriter, r *http.Request) error {
	report, err := s.search(r)
	if err != nil {
		return err
	}
	opts, err := s.renderOptions()
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	return render.Markdown(w, report, opts...)
}
