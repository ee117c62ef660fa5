package app

import (
	"github.com/gatherly/gatherly/internal/database"
	"github.com/gatherly/gatherly/pkg/booking"
	"github.com/gatherly/gatherly/pkg/event"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventRepo    event.EventRepository
	EventService event.EventService
	EventHandler *event.EventHandler

	BookingRepo    booking.BookingRepository
	BookingService booking.BookingService
	BookingHandler *booking.BookingHandler
}

// BuildDependencies initializes and wires all application services and handlers.
// The Connector is the single shared database dependency; repositories
// acquire the handle through it on demand.
func BuildDependencies(connector *database.Connector) *Dependencies {
	deps := &Dependencies{}

	eventRepo := event.NewEventRepo(connector)
	deps.EventRepo = eventRepo
	deps.EventService = event.NewEventService(eventRepo)
	deps.EventHandler = event.NewEventHandler(deps.EventService)

	deps.BookingRepo = booking.NewBookingRepo(connector)
	deps.BookingService = booking.NewBookingService(deps.BookingRepo, eventRepo)
	deps.BookingHandler = booking.NewBookingHandler(deps.BookingService)

	return deps
}
