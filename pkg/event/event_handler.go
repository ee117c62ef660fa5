package event

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

type EventDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Image       string   `json:"image"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	Venue       string   `json:"venue"`
	Mode        string   `json:"mode"`
	Audience    string   `json:"audience"`
	Overview    string   `json:"overview"`
	Description string   `json:"description"`
	Agenda      []string `json:"agenda"`
	Organizer   string   `json:"organizer"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// EventPayload is the client-supplied shape. The slug is never accepted from
// the client: it is always derived from the title.
type EventPayload struct {
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	Venue       string   `json:"venue"`
	Mode        string   `json:"mode"`
	Audience    string   `json:"audience"`
	Overview    string   `json:"overview"`
	Description string   `json:"description"`
	Agenda      []string `json:"agenda"`
	Organizer   string   `json:"organizer"`
	Tags        []string `json:"tags"`
}

type EventHandler struct {
	eventService EventService
}

func NewEventHandler(eventService EventService) *EventHandler {
	return &EventHandler{eventService}
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Listing events")

	events, err := h.eventService.ListEvents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := make([]EventDTO, 0, len(events))
	for _, event := range events {
		response = append(response, eventToDTO(event))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	slug := mux.Vars(r)["slug"]

	event, err := h.eventService.GetEventBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			rest.WriteError(w, http.StatusNotFound, rest.ErrorResponse{Error: "Event not found"})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(eventToDTO(event)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Creating new event")

	var payload EventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	created, err := h.eventService.CreateEvent(r.Context(), payloadToEvent(payload))
	if err != nil {
		writeEventError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(eventToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Updating event")

	eventID, err := uuid.Parse(mux.Vars(r)["eventId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid event ID"})
		return
	}

	var payload EventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}

	event := payloadToEvent(payload)
	event.ID = eventID
	updated, err := h.eventService.UpdateEvent(r.Context(), event)
	if err != nil {
		writeEventError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(eventToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// writeEventError maps service errors to statuses: validation failures are
// 400 with per-field details, a missing event is 404, anything else is a
// server-side failure.
func writeEventError(w http.ResponseWriter, err error) {
	var validationErrs *validation.Errors
	if errors.As(err, &validationErrs) {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:  "Event validation failed",
			Fields: validationErrs.Fields(),
		})
		return
	}
	if errors.Is(err, ErrEventNotFound) {
		rest.WriteError(w, http.StatusNotFound, rest.ErrorResponse{Error: "Event not found"})
		return
	}
	log.Errorf("event operation failed: %v", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func payloadToEvent(payload EventPayload) Event {
	return Event{
		Title:       payload.Title,
		Image:       payload.Image,
		Date:        payload.Date,
		Time:        payload.Time,
		Location:    payload.Location,
		Venue:       payload.Venue,
		Mode:        Mode(payload.Mode),
		Audience:    payload.Audience,
		Overview:    payload.Overview,
		Description: payload.Description,
		Agenda:      payload.Agenda,
		Organizer:   payload.Organizer,
		Tags:        payload.Tags,
	}
}

func eventToDTO(event Event) EventDTO {
	dto := EventDTO{
		ID:          event.ID.String(),
		Title:       event.Title,
		Slug:        event.Slug,
		Image:       event.Image,
		Date:        event.Date,
		Time:        event.Time,
		Location:    event.Location,
		Venue:       event.Venue,
		Mode:        string(event.Mode),
		Audience:    event.Audience,
		Overview:    event.Overview,
		Description: event.Description,
		Agenda:      event.Agenda,
		Organizer:   event.Organizer,
		Tags:        event.Tags,
	}
	if !event.CreatedAt.IsZero() {
		dto.CreatedAt = event.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !event.UpdatedAt.IsZero() {
		dto.UpdatedAt = event.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
