package web

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/explorer/internal/core"
	"github.com/JonMunkholm/explorer/internal/logging"
	"github.com/JonMunkholm/explorer/internal/source"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.service.State()
	active := ""
	if st.Dataset != nil {
		active = st.Dataset.ID
	}
	all, _ := s.service.Datasets("")
	writeJSON(w, map[string]any{
		"status":   "ok",
		"datasets": len(all),
		"active":   active,
		"ingest":   s.service.IngestStatus(),
	})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.Datasets(r.URL.Query().Get("source"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"source":   s.service.Snapshot().Source,
		"datasets": list,
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Datasets.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, source.ErrTooLarge)
			return
		}
		s.respondError(w, r, core.ErrNoFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, core.ErrNoFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sum, err := s.service.Upload(r.Context(), header.Filename, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	logging.WithFields(r.Context(), "dataset", sum.ID).Info("upload activated")
	writeJSONStatus(w, http.StatusCreated, sum)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Activate(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeState(w, r, snap)
}

func (s *Server) handleSetSource(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.SetSource(chi.URLParam(r, "source"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeState(w, r, snap)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil || name == "" {
		s.respondError(w, r, core.ErrImageNotFound)
		return
	}

	data, err := s.service.Image(chi.URLParam(r, "id"), name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctype := mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}
