package images

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"GardenRosas/pkg/kit"
)

// 10MB upload cap.
const maxUploadBytes = 10 << 20

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "image file is required", map[string]any{"cause": err.Error()})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		kit.WriteError(w, r, http.StatusBadRequest, "only image files are accepted", map[string]any{"content_type": contentType})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "upload too large or unreadable", nil)
		return
	}

	img, err := s.Store.Put(r.Context(), header.Filename, contentType, data)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("image upload failed", zap.Error(err), zap.String("file", header.Filename))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "could not store image", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, img)
}

func (s *Server) List(w http.ResponseWriter, r *http.Request) {
	imgs, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("image list failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "could not list images", nil)
		return
	}
	if imgs == nil {
		imgs = []Image{}
	}
	kit.WriteJSON(w, http.StatusOK, imgs)
}

func (s *Server) Delete(w http.ResponseWriter, r *http.Request) {
	// Wildcard param: S3 ids contain slashes.
	id := chi.URLParam(r, "*")
	if id == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "image id is required", nil)
		return
	}

	err := s.Store.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "image not found", map[string]any{"id": id})
		return
	}
	if err != nil {
		if s.Log != nil {
			s.Log.Error("image delete failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "could not delete image", nil)
		return
	}

	kit.WriteMessage(w, http.StatusOK, "image deleted", map[string]any{"id": id})
}
