package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"GardenRosas/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		s.logError("list products failed", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "could not load products", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, found, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.logError("get product failed", err, zap.Int64("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "could not load product", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var d Draft
	if !decodeBody(w, r, &d) {
		return
	}
	if err := d.Validate(); err != nil {
		writeValidationError(w, r, err)
		return
	}

	p, err := s.Store.Create(r.Context(), d)
	if err != nil {
		s.logError("create product failed", err)
		writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var d Draft
	if !decodeBody(w, r, &d) {
		return
	}
	if err := d.Validate(); err != nil {
		writeValidationError(w, r, err)
		return
	}

	p, found, err := s.Store.Update(r.Context(), id, d)
	if err != nil {
		s.logError("update product failed", err, zap.Int64("id", id))
		writeStoreError(w, r, err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, found, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		s.logError("delete product failed", err, zap.Int64("id", id))
		writeStoreError(w, r, err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

type bulkPriceResp struct {
	Affected int64 `json:"affected"`
}

func (s *Server) bulkPrice(w http.ResponseWriter, r *http.Request) {
	var c PriceChange
	if !decodeBody(w, r, &c) {
		return
	}
	if err := c.Validate(); err != nil {
		writeValidationError(w, r, err)
		return
	}

	affected, err := s.Store.BulkPriceUpdate(r.Context(), c)
	if err != nil {
		s.logError("bulk price update failed", err,
			zap.String("scope", c.Scope), zap.String("mode", c.Mode))
		writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, bulkPriceResp{Affected: affected})
}

func (s *Server) logError(msg string, err error, fields ...zap.Field) {
	if s.Log != nil {
		s.Log.Error(msg, append([]zap.Field{zap.Error(err)}, fields...)...)
	}
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "product id must be a positive integer", map[string]any{"id": raw})
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "malformed request body", map[string]any{"cause": err.Error()})
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		kit.WriteError(w, r, http.StatusBadRequest, "malformed request body", map[string]any{"cause": "extra data after json object"})
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), map[string]any{"problems": ve.Problems})
		return
	}
	kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kit.WriteError(w, r, http.StatusGatewayTimeout, "storage timeout", nil)
		return
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "storage error", nil)
}
