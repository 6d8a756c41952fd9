package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"starevents/internal/auth"
	"starevents/internal/models"
	"starevents/internal/reports"
	"starevents/internal/settings"
	"starevents/internal/utils"
)

type Handler struct {
	Reports  *reports.Service
	Settings *settings.Store
}

func isAdmin(w http.ResponseWriter, r *http.Request) bool {
	if auth.Role(r.Context()) == string(models.RoleAdmin) {
		return true
	}
	utils.WriteJSON(w, http.StatusForbidden, utils.ErrorResponse("forbidden", "admin role required"))
	return false
}

// Summary returns the admin dashboard aggregates.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(w, r) {
		return
	}
	summary, err := h.Reports.Summary(r.Context())
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("report failed", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("report summary", summary))
}

// OrganizerSummary scopes the same aggregates to the caller's events.
func (h *Handler) OrganizerSummary(w http.ResponseWriter, r *http.Request) {
	role := auth.Role(r.Context())
	if role != string(models.RoleOrganizer) && role != string(models.RoleAdmin) {
		utils.WriteJSON(w, http.StatusForbidden, utils.ErrorResponse("forbidden", "organizer role required"))
		return
	}
	summary, err := h.Reports.OrganizerSummary(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("report failed", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("organizer summary", summary))
}

// Export streams a CSV download of users, events or bookings.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(w, r) {
		return
	}
	reportType := r.URL.Query().Get("type")
	data, filename, err := h.Reports.ExportCSV(r.Context(), reportType)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("export failed", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(w, r) {
		return
	}
	row, err := h.Settings.Get(r.Context())
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("load settings failed", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("settings", row))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(w, r) {
		return
	}
	var row models.SystemSetting
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}
	if row.MaxTicketsPerBooking <= 0 || row.BookingCancellationHours < 0 || row.PointsPer100 < 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", "settings values out of range"))
		return
	}

	if err := h.Settings.Update(r.Context(), &row); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("update settings failed", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("settings updated", row))
}
