package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gatherly/gatherly/internal/rest"
	"github.com/gatherly/gatherly/internal/validation"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type BookingDTO struct {
	ID        string `json:"id"`
	EventID   string `json:"eventId"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type BookingHandler struct {
	bookingService BookingService
}

func NewBookingHandler(bookingService BookingService) *BookingHandler {
	return &BookingHandler{bookingService}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Creating new booking")

	var payload struct {
		EventID string `json:"eventId"`
		Email   string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	eventID, err := uuid.Parse(payload.EventID)
	if err != nil && payload.EventID != "" {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:  "Booking validation failed",
			Fields: map[string]string{"eventId": "Event ID must be a valid UUID"},
		})
		return
	}

	created, err := h.bookingService.CreateBooking(r.Context(), Booking{EventID: eventID, Email: payload.Email})
	if err != nil {
		writeBookingError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(bookingToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *BookingHandler) ListEventBookings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	eventID, err := uuid.Parse(mux.Vars(r)["eventId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid event ID"})
		return
	}

	bookings, err := h.bookingService.ListEventBookings(r.Context(), eventID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeBookings(w, bookings)
}

func (h *BookingHandler) ListEmailBookings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	email := r.URL.Query().Get("email")
	if email == "" {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Missing email query parameter"})
		return
	}

	bookings, err := h.bookingService.ListEmailBookings(r.Context(), email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeBookings(w, bookings)
}

func writeBookings(w http.ResponseWriter, bookings []Booking) {
	response := make([]BookingDTO, 0, len(bookings))
	for _, booking := range bookings {
		response = append(response, bookingToDTO(booking))
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeBookingError keeps the error kinds distinguishable for clients:
// bad input is 400, a missing event is 404, a duplicate booking is 409.
func writeBookingError(w http.ResponseWriter, err error) {
	var validationErrs *validation.Errors
	if errors.As(err, &validationErrs) {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:  "Booking validation failed",
			Fields: validationErrs.Fields(),
		})
		return
	}
	if errors.Is(err, ErrEventNotFound) {
		rest.WriteError(w, http.StatusNotFound, rest.ErrorResponse{Error: "Event not found"})
		return
	}
	if errors.Is(err, ErrAlreadyBooked) {
		rest.WriteError(w, http.StatusConflict, rest.ErrorResponse{Error: "Already booked", Details: err.Error()})
		return
	}
	log.Errorf("booking operation failed: %v", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func bookingToDTO(booking Booking) BookingDTO {
	dto := BookingDTO{
		ID:      booking.ID.String(),
		EventID: booking.EventID.String(),
		Email:   booking.Email,
	}
	if !booking.CreatedAt.IsZero() {
		dto.CreatedAt = booking.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !booking.UpdatedAt.IsZero() {
		dto.UpdatedAt = booking.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
