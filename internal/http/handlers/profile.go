package handlers

import (
	"errors"
	"net/http"

	"github.com/gargatun/aerodyne/internal/apperr"
	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/http/middleware"
	"github.com/gargatun/aerodyne/internal/logx"
)

// ProfileHandler serves the authenticated courier's profile. The GET
// response merges contact details with delivery statistics.
type ProfileHandler struct {
	profiles profileUsecase
	queries  queryUsecase
	logger   logx.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(logger logx.Logger, profiles profileUsecase, queries queryUsecase) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, queries: queries, logger: logger}
}

func (h *ProfileHandler) respond(w http.ResponseWriter, r *http.Request, p *domain.UserProfile) {
	stats, err := h.queries.ProfileStats(r.Context(), p.User.ID)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, profileResponse{
		UserID:               p.User.ID,
		Name:                 p.User.Name,
		Phone:                p.Phone,
		Email:                p.Email,
		TotalDeliveries:      stats.TotalDeliveries,
		SuccessfulDeliveries: stats.SuccessfulDeliveries,
		TotalTimeSeconds:     stats.TotalTimeSeconds,
		TotalTimeHours:       stats.TotalTimeHours,
	})
}

// Get handles GET /profile. The profile is created empty on first access.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := middleware.CourierFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	p, err := h.profiles.Get(r.Context(), c)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	h.respond(w, r, p)
}

// Update handles PUT /profile with partial contact updates.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := middleware.CourierFromContext(r.Context())
	if !ok {
		writeError(h.logger, w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req updateProfileRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	p, err := h.profiles.Update(r.Context(), c, domain.PartialProfileUpdate{
		Phone: req.Phone,
		Email: req.Email,
	})
	switch {
	case err == nil:
		h.respond(w, r, p)
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
