package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/logx"
)

// CatalogHandler serves CRUD endpoints for one catalog kind. The same
// handler type backs transport models, packaging types, services and
// statuses; only the bound kind differs.
type CatalogHandler struct {
	uc     catalogUsecase
	kind   domain.CatalogKind
	logger logx.Logger
}

// NewCatalogHandler binds a catalog usecase to one catalog kind.
func NewCatalogHandler(logger logx.Logger, uc catalogUsecase, kind domain.CatalogKind) *CatalogHandler {
	return &CatalogHandler{uc: uc, kind: kind, logger: logger}
}

// CatalogHandlers groups one CatalogHandler per catalog kind.
type CatalogHandlers struct {
	TransportModels *CatalogHandler
	PackagingTypes  *CatalogHandler
	Services        *CatalogHandler
	Statuses        *CatalogHandler
}

// NewCatalogHandlers builds handlers for every catalog kind.
func NewCatalogHandlers(logger logx.Logger, uc catalogUsecase) *CatalogHandlers {
	return &CatalogHandlers{
		TransportModels: NewCatalogHandler(logger, uc, domain.KindTransportModel),
		PackagingTypes:  NewCatalogHandler(logger, uc, domain.KindPackagingType),
		Services:        NewCatalogHandler(logger, uc, domain.KindService),
		Statuses:        NewCatalogHandler(logger, uc, domain.KindStatus),
	}
}

// List handles GET on the collection.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.uc.List(r.Context(), h.kind)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, catalogsToResponse(list))
}

// GetByID handles GET on one item.
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	e, err := h.uc.Get(r.Context(), h.kind, id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, catalogToResponse(*e))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Create handles POST on the collection.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCatalogRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	id, err := h.uc.Create(r.Context(), h.kind, domain.CatalogValue{Name: req.Name, Color: req.Color})
	switch {
	case err == nil:
		w.Header().Set("Location", r.URL.Path+"/"+strconv.FormatInt(id, 10))
		writeJSON(h.logger, w, r, http.StatusCreated, map[string]any{"id": id})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "name already exists")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Update handles PATCH on one item.
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateCatalogRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	err = h.uc.UpdatePartial(r.Context(), h.kind, id, req.Name, req.Color)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "name already exists")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Delete handles DELETE on one item. Items referenced by deliveries are
// protected and answer 409.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.uc.Delete(r.Context(), h.kind, id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "still referenced by deliveries")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
