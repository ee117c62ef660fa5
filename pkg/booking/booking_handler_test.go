package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test setup helper
func setupHandlerTest(t *testing.T) (*BookingHandler, uuid.UUID) {
	repo := NewStubBookingRepo()
	t.Cleanup(repo.Cleanup)
	eventID := uuid.New()
	service := NewBookingService(repo, &stubEventFinder{known: map[uuid.UUID]bool{eventID: true}})
	return NewBookingHandler(service), eventID
}

func postBooking(handler *BookingHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/booking", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.CreateBooking(w, req)
	return w
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	t.Run("should return 201 with the stored booking", func(t *testing.T) {
		handler, eventID := setupHandlerTest(t)

		w := postBooking(handler, fmt.Sprintf(`{"eventId":%q,"email":"User@Example.com"}`, eventID))

		assert.Equal(t, http.StatusCreated, w.Code)
		var response BookingDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, eventID.String(), response.EventID)
		assert.Equal(t, "user@example.com", response.Email)
		assert.NotEmpty(t, response.ID)
	})

	t.Run("should return 400 with field details for invalid input", func(t *testing.T) {
		handler, _ := setupHandlerTest(t)

		w := postBooking(handler, `{"email":"user@@example.com"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Contains(t, response.Fields, "eventId")
		assert.Contains(t, response.Fields, "email")
	})

	t.Run("should return 404 for a booking on a missing event", func(t *testing.T) {
		handler, _ := setupHandlerTest(t)

		w := postBooking(handler, fmt.Sprintf(`{"eventId":%q,"email":"user@example.com"}`, uuid.New()))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should return 409 for a duplicate booking", func(t *testing.T) {
		handler, eventID := setupHandlerTest(t)

		body := fmt.Sprintf(`{"eventId":%q,"email":"user@example.com"}`, eventID)
		first := postBooking(handler, body)
		require.Equal(t, http.StatusCreated, first.Code)

		second := postBooking(handler, body)

		assert.Equal(t, http.StatusConflict, second.Code)
	})

	t.Run("should return 400 for a malformed body", func(t *testing.T) {
		handler, _ := setupHandlerTest(t)

		w := postBooking(handler, `{not json`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookingHandler_ListEventBookings(t *testing.T) {
	t.Run("should list bookings for an event", func(t *testing.T) {
		handler, eventID := setupHandlerTest(t)
		created := postBooking(handler, fmt.Sprintf(`{"eventId":%q,"email":"user@example.com"}`, eventID))
		require.Equal(t, http.StatusCreated, created.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/event/"+eventID.String()+"/booking", nil)
		req = mux.SetURLVars(req, map[string]string{"eventId": eventID.String()})
		w := httptest.NewRecorder()
		handler.ListEventBookings(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response []BookingDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.Len(t, response, 1)
		assert.Equal(t, "user@example.com", response[0].Email)
	})

	t.Run("should return 400 for an invalid event id", func(t *testing.T) {
		handler, _ := setupHandlerTest(t)

		req := httptest.NewRequest(http.MethodGet, "/api/event/nope/booking", nil)
		req = mux.SetURLVars(req, map[string]string{"eventId": "nope"})
		w := httptest.NewRecorder()
		handler.ListEventBookings(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
