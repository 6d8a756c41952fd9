package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"starevents/internal/auth"
	"starevents/internal/booking"
	"starevents/internal/models"
	"starevents/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Booking *booking.Service
}

// callerID resolves the customer identity. The OIDC middleware normally
// populates the context; raw bearer tokens are parsed as a fallback so the
// handlers also work behind a gateway that strips middleware.
func callerID(r *http.Request) string {
	if id := auth.UserID(r.Context()); id != "" {
		return id
	}
	token, err := auth.ExtractTokenFromRequest(r)
	if err != nil {
		return ""
	}
	id, err := auth.ExtractUserIDFromJWT(token)
	if err != nil {
		return ""
	}
	return id
}

// writeBookingError maps the checkout error taxonomy onto HTTP statuses.
func writeBookingError(w http.ResponseWriter, err error) {
	var inventoryErr *booking.InsufficientInventoryError
	var paymentErr *booking.PaymentFailedError

	switch {
	case errors.Is(err, booking.ErrInvalidQuantity),
		errors.Is(err, booking.ErrQuantityLimit):
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", err.Error()))
	case errors.Is(err, booking.ErrEventNotFound),
		errors.Is(err, booking.ErrBookingNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("not found", err.Error()))
	case errors.Is(err, booking.ErrNotBookingOwner):
		utils.WriteJSON(w, http.StatusForbidden, utils.ErrorResponse("forbidden", err.Error()))
	case errors.As(err, &inventoryErr):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{
			Success:   false,
			Message:   "insufficient inventory",
			Error:     err.Error(),
			Data:      map[string]int{"remaining": inventoryErr.Remaining},
			Timestamp: time.Now(),
		})
	case errors.Is(err, booking.ErrEventNotBookable),
		errors.Is(err, booking.ErrCancelWindowClosed),
		errors.Is(err, models.ErrInvalidTransition):
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse("conflict", err.Error()))
	case errors.Is(err, booking.ErrSessionExpired):
		utils.WriteJSON(w, http.StatusGone, utils.ErrorResponse("checkout session expired", err.Error()))
	case errors.As(err, &paymentErr):
		utils.WriteJSON(w, http.StatusBadGateway, utils.ErrorResponse("payment failed, please retry", err.Error()))
	default:
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("internal error", err.Error()))
	}
}

// StartCheckout prices the request and stages the quote (phase one).
func (h *Handler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	var req booking.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}

	customerID := callerID(r)
	if customerID == "" {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("unauthorized", "missing user identity"))
		return
	}

	quote, err := h.Booking.StartCheckout(r.Context(), customerID, req)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("checkout staged", quote))
}

// StagedQuote returns the in-flight quote for the payment page.
func (h *Handler) StagedQuote(w http.ResponseWriter, r *http.Request) {
	customerID := callerID(r)
	quote, err := h.Booking.StagedQuote(r.Context(), customerID)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("staged checkout", quote))
}

type confirmRequest struct {
	PaymentMethod string `json:"payment_method"`
	CardLastFour  string `json:"card_last_four,omitempty"`
}

// ConfirmPayment performs phase two: the durable write.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request body", err.Error()))
		return
	}
	if req.PaymentMethod == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", "payment_method is required"))
		return
	}

	customerID := callerID(r)
	bkg, err := h.Booking.ConfirmPayment(r.Context(), customerID, req.PaymentMethod, req.CardLastFour)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("booking confirmed", bkg))
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	customerID := callerID(r)
	bookings, err := h.Booking.ListBookings(r.Context(), customerID)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("bookings", bookings))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	customerID := callerID(r)

	bkg, err := h.Booking.GetBookingForCustomer(r.Context(), customerID, bookingID)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("booking", bkg))
}

type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	customerID := callerID(r)

	var req cancelRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := h.Booking.Cancel(r.Context(), customerID, bookingID, req.Reason); err != nil {
		writeBookingError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("booking cancelled", nil))
}

// TicketQR streams the receipt QR code PNG.
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	customerID := callerID(r)

	png, err := h.Booking.TicketQR(r.Context(), customerID, bookingID)
	if err != nil {
		writeBookingError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
