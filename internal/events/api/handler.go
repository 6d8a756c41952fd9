package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"starevents/internal/auth"
	"starevents/internal/events"
	"starevents/internal/models"
	"starevents/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Events *events.Service
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, events.ErrEventNotFound),
		errors.Is(err, events.ErrVenueNotFound),
		errors.Is(err, events.ErrUserNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("not found", err.Error()))
	case errors.Is(err, events.ErrEventHasBookings),
		errors.Is(err, events.ErrVenueHasEvents),
		errors.Is(err, events.ErrUserHasDependents),
		errors.Is(err, models.ErrInvalidTransition):
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse("conflict", err.Error()))
	case errors.Is(err, events.ErrInvalidEvent):
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", err.Error()))
	default:
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("internal error", err.Error()))
	}
}

func requireRole(w http.ResponseWriter, r *http.Request, roles ...models.Role) bool {
	got := auth.Role(r.Context())
	for _, role := range roles {
		if got == string(role) {
			return true
		}
	}
	utils.WriteJSON(w, http.StatusForbidden, utils.ErrorResponse("forbidden", "insufficient role"))
	return false
}

// ---------------- EVENTS ----------------

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := events.ListFilter{
		Category:    q.Get("category"),
		Keyword:     q.Get("q"),
		OrganizerID: q.Get("organizer"),
		OnlyActive:  q.Get("include_inactive") != "true",
	}
	list, err := h.Events.ListEvents(r.Context(), filter)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("events", list))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.Events.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("event", event))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, models.RoleOrganizer, models.RoleAdmin) {
		return
	}
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}
	event.OrganizerID = auth.UserID(r.Context())

	if err := h.Events.CreateEvent(r.Context(), &event); err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("event created", event))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, models.RoleOrganizer, models.RoleAdmin) {
		return
	}
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}
	event.ID = chi.URLParam(r, "eventID")

	if err := h.Events.UpdateEvent(r.Context(), &event); err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("event updated", event))
}

type transitionRequest struct {
	Status models.EventStatus `json:"status"`
}

func (h *Handler) TransitionEvent(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, models.RoleOrganizer, models.RoleAdmin) {
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	event, err := h.Events.TransitionEvent(r.Context(), chi.URLParam(r, "eventID"), req.Status)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("event status updated", event))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, models.RoleOrganizer, models.RoleAdmin) {
		return
	}
	if err := h.Events.DeleteEvent(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("event deleted", nil))
}

// ---------------- VENUES ----------------

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.Events.ListVenues(r.Context())
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("venues", venues))
}

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, models.RoleAdmin) {
		return
	}
	var venue models.Venue
	if err := json.NewDecoder(r.Body).Decode(&venue); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}
	if err := h.Events.CreateVenue(r.Context(), &venue); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("venue created", venue))
}

func (h *Handler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, models.RoleAdmin) {
		return
	}
	var venue models.Venue
	if err := json.NewDecoder(r.Body).Decode(&venue); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}
	venue.ID = chi.URLParam(r, "venueID")

	if err := h.Events.UpdateVenue(r.Context(), &venue); err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("venue updated", venue))
}

func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	if !requireRole(w, r, models.RoleAdmin) {
		return
	}
	if err := h.Events.DeleteVenue(r.Context(), chi.URLParam(r, "venueID")); err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("venue deleted", nil))
}

// ---------------- PROFILE ----------------

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.Events.GetProfile(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("profile", user))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}
	user.ID = auth.UserID(r.Context())

	if err := h.Events.UpdateProfile(r.Context(), &user); err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("profile updated", user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if auth.UserID(r.Context()) != userID && !requireRole(w, r, models.RoleAdmin) {
		return
	}
	if err := h.Events.DeleteUser(r.Context(), userID); err != nil {
		writeCatalogError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("user deleted", nil))
}
