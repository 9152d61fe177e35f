package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/explorer/internal/core"
	"github.com/JonMunkholm/explorer/internal/filter"
	"github.com/JonMunkholm/explorer/internal/session"
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, r, s.service.Snapshot())
}

// writeState responds with snap and the requested table page.
func (s *Server) writeState(w http.ResponseWriter, r *http.Request, snap core.Snapshot) {
	page := parseIntParam(r, "page", 1)
	perPage := parseIntParam(r, "per_page", s.service.PageSize())
	writeJSON(w, newStateView(snap, page, perPage))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, newChartView(s.service.Snapshot()))
}

func (s *Server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"active":   s.service.State().Palette,
		"palettes": s.service.Palettes(),
	})
}

// dispatch applies actions and writes the resulting state.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, actions ...session.Action) {
	s.writeState(w, r, s.service.Dispatch(actions...))
}

func (s *Server) handleAddFilter(w http.ResponseWriter, r *http.Request) {
	col, ok := s.columnParam(w, r)
	if !ok {
		return
	}
	var rng filter.Range
	if !s.decode(w, r, &rng) {
		return
	}
	s.dispatch(w, r, session.AddFilter{Column: col, Range: rng})
}

func (s *Server) handleRemoveFilter(w http.ResponseWriter, r *http.Request) {
	col, ok := s.columnParam(w, r)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.respondError(w, r, core.ErrBadRequest)
		return
	}
	s.dispatch(w, r, session.RemoveFilter{Column: col, Index: idx})
}

func (s *Server) handleClearColumnFilter(w http.ResponseWriter, r *http.Request) {
	col, ok := s.columnParam(w, r)
	if !ok {
		return
	}
	s.dispatch(w, r, session.ClearColumnFilter{Column: col})
}

func (s *Server) handleResetFilters(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, session.ResetFilters{})
}

func (s *Server) handleToggleSort(w http.ResponseWriter, r *http.Request) {
	col, ok := s.columnParam(w, r)
	if !ok {
		return
	}
	s.dispatch(w, r, session.ToggleSort{Column: col})
}

func (s *Server) handleClearSorts(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, session.ClearSorts{})
}

func (s *Server) handleToggleRow(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordParam(w, r)
	if !ok {
		return
	}
	s.dispatch(w, r, session.ToggleRow{ID: id})
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, session.ClearSelection{})
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordParam(w, r)
	if !ok {
		return
	}
	s.dispatch(w, r, session.FocusRecord{ID: id})
}

type pointerRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleBrushPress(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, session.BrushPress{X: req.X, Y: req.Y})
}

func (s *Server) handleBrushMove(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, session.BrushMove{Y: req.Y})
}

func (s *Server) handleBrushRelease(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, session.BrushRelease{})
}

func (s *Server) handleReorderAxes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Dragged string `json:"dragged"`
		Target  string `json:"target"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, session.ReorderAxes{Dragged: req.Dragged, Target: req.Target})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width float64 `json:"width"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, session.Resize{Width: req.Width})
}

// handleColor updates the color column, the palette, or both.
func (s *Server) handleColor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ColorBy string `json:"colorBy"`
		Palette string `json:"palette"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	var actions []session.Action
	if req.ColorBy != "" {
		actions = append(actions, session.SetColorBy{Column: req.ColorBy})
	}
	if req.Palette != "" {
		actions = append(actions, session.SetPalette{Name: req.Palette})
	}
	s.dispatch(w, r, actions...)
}

// handleImageColumn picks the gallery image column.
func (s *Server) handleImageColumn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Column string `json:"column"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	s.dispatch(w, r, session.SetImageColumn{Column: req.Column})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, r, core.ErrBadRequest)
		return false
	}
	return true
}

// columnParam returns the unescaped {col} parameter.
func (s *Server) columnParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	col, err := url.PathUnescape(chi.URLParam(r, "col"))
	if err != nil || col == "" {
		s.respondError(w, r, core.ErrBadRequest)
		return "", false
	}
	return col, true
}

func (s *Server) recordParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		s.respondError(w, r, core.ErrBadRequest)
		return 0, false
	}
	return id, true
}

// parseIntParam reads a positive integer query parameter.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
