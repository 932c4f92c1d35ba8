package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/http/middleware"
	"github.com/gargatun/aerodyne/internal/logx"
)

// DeliveryHandler handles HTTP requests for delivery resources.
type DeliveryHandler struct {
	records     recordUsecase
	assignments assignmentUsecase
	queries     queryUsecase
	sync        syncUsecase
	logger      logx.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(logger logx.Logger, records recordUsecase, assignments assignmentUsecase, queries queryUsecase, sync syncUsecase) *DeliveryHandler {
	return &DeliveryHandler{
		records:     records,
		assignments: assignments,
		queries:     queries,
		sync:        sync,
		logger:      logger,
	}
}

func (h *DeliveryHandler) requester(w http.ResponseWriter, r *http.Request) (domain.Courier, bool) {
	c, ok := middleware.CourierFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, "unauthorized")
	}
	return c, ok
}

// List handles GET /deliveries.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f domain.DeliveryFilter
	if s := q.Get("courier_id"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v <= 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid courier_id")
			return
		}
		f.CourierID = &v
	}
	if s := q.Get("status_id"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v <= 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid status_id")
			return
		}
		f.StatusID = &v
	}
	if s := q.Get("unassigned"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid unassigned")
			return
		}
		f.Unassigned = v
	}

	list, err := h.records.List(r.Context(), f)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveriesToResponse(list))
}

// Create handles POST /deliveries.
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDeliveryRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	d, err := h.records.Create(r.Context(), req.toModel())
	switch {
	case err == nil:
		w.Header().Set("Location", "/deliveries/"+strconv.FormatInt(d.ID, 10))
		writeJSON(h.logger, w, r, http.StatusCreated, deliveryToResponse(*d))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// CreateSimple handles POST /deliveries/simple with a minimal payload.
func (h *DeliveryHandler) CreateSimple(w http.ResponseWriter, r *http.Request) {
	var req createSimpleRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	d, err := h.records.CreateSimple(r.Context(), req.toModel())
	switch {
	case err == nil:
		w.Header().Set("Location", "/deliveries/"+strconv.FormatInt(d.ID, 10))
		writeJSON(h.logger, w, r, http.StatusCreated, deliveryToResponse(*d))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// GetByID handles GET /deliveries/{id}.
func (h *DeliveryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	d, err := h.records.Get(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(*d))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Update handles PATCH /deliveries/{id} with partial updates.
func (h *DeliveryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateDeliveryRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	d, err := h.records.Update(r.Context(), id, req.toModel())
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(*d))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Delete handles DELETE /deliveries/{id}.
func (h *DeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.records.Delete(r.Context(), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Assign handles PATCH /deliveries/{id}/assign.
// @Summary Взять доставку
// @Description Закрепляет свободную доставку за текущим курьером
// @Tags deliveries
// @Produce json
// @Success 200 {object} deliveryDTO
// @Failure 404 {object} ErrorResponse "delivery not found"
// @Failure 409 {object} ErrorResponse "already assigned"
// @Router /deliveries/{id}/assign [patch]
func (h *DeliveryHandler) Assign(w http.ResponseWriter, r *http.Request) {
	c, ok := h.requester(w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	d, err := h.assignments.Assign(r.Context(), id, c)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(*d))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	case errors.Is(err, apperr.ErrAlreadyAssigned):
		writeError(h.logger, w, r, http.StatusConflict, "delivery already assigned")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Unassign handles PATCH /deliveries/{id}/unassign.
// @Summary Отказаться от доставки
// @Description Снимает доставку с текущего курьера, если она закреплена за ним
// @Tags deliveries
// @Produce json
// @Success 200 {object} deliveryDTO
// @Failure 404 {object} ErrorResponse "delivery not found"
// @Failure 409 {object} ErrorResponse "not owner"
// @Router /deliveries/{id}/unassign [patch]
func (h *DeliveryHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	c, ok := h.requester(w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	d, err := h.assignments.Unassign(r.Context(), id, c)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(*d))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	case errors.Is(err, apperr.ErrNotOwner):
		writeError(h.logger, w, r, http.StatusConflict, "delivery is assigned to another courier")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// UpdateStatus handles PATCH /deliveries/{id}/update-status.
func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.StatusID <= 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid status_id")
		return
	}

	d, err := h.assignments.SetStatus(r.Context(), id, req.StatusID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(*d))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// AttachMedia handles POST /deliveries/{id}/media with a multipart file.
func (h *DeliveryHandler) AttachMedia(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	if err := r.ParseMultipartForm(mediaUploadLimit); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	ref, err := h.assignments.AttachMedia(r.Context(), id, header.Filename, file)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, attachMediaResponse{MediaFile: ref})
	case errors.Is(err, apperr.ErrNoFile):
		writeError(h.logger, w, r, http.StatusBadRequest, "file is required")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Available handles GET /deliveries/available.
func (h *DeliveryHandler) Available(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var maxDistance *float64
	if s := q.Get("max_distance"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid max_distance")
			return
		}
		maxDistance = &v
	}
	sortBy := domain.SortField(q.Get("sort_by"))
	order := domain.SortOrder(q.Get("order"))

	list, err := h.queries.ListAvailable(r.Context(), maxDistance, sortBy, order)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveriesToResponse(list))
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// MyActive handles GET /deliveries/my/active.
func (h *DeliveryHandler) MyActive(w http.ResponseWriter, r *http.Request) {
	c, ok := h.requester(w, r)
	if !ok {
		return
	}
	list, err := h.queries.ListMine(r.Context(), c.ID)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveriesToResponse(list))
}

// MyHistory handles GET /deliveries/my/history.
func (h *DeliveryHandler) MyHistory(w http.ResponseWriter, r *http.Request) {
	c, ok := h.requester(w, r)
	if !ok {
		return
	}
	list, err := h.queries.ListHistory(r.Context(), c.ID)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveriesToResponse(list))
}

// Coordinates handles GET /deliveries/coordinates.
func (h *DeliveryHandler) Coordinates(w http.ResponseWriter, r *http.Request) {
	list, err := h.queries.ListCoordinates(r.Context())
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, pointsToResponse(list))
}

// Sync handles POST /deliveries/sync. The whole batch always answers 200;
// per-change verdicts are in the body.
func (h *DeliveryHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	outcomes := h.sync.Reconcile(r.Context(), changesToModel(req.Changes))
	writeJSON(h.logger, w, r, http.StatusOK, outcomesToResponse(outcomes))
}

const mediaUploadLimit = 32 << 20
