package domain

import "time"

// BookingEventType identifies a booking lifecycle event
type BookingEventType string

const (
	BookingEventCreated   BookingEventType = "booking.created"
	BookingEventCancelled BookingEventType = "booking.cancelled"
)

// BookingEvent is the envelope published to the booking events topic
type BookingEvent struct {
	EventID   string           `json:"event_id"`
	EventType BookingEventType `json:"event_type"`
	Timestamp time.Time        `json:"timestamp"`
	Booking   *Booking         `json:"booking"`
}

// NewBookingEvent builds an event envelope for a booking
func NewBookingEvent(eventType BookingEventType, booking *Booking, eventID string) *BookingEvent {
	return &BookingEvent{
		EventID:   eventID,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Booking:   booking,
	}
}

// Key returns the partition key for the event. Events for the same course
// stay ordered so seat accounting consumers see a consistent stream.
func (e *BookingEvent) Key() string {
	if e.Booking != nil {
		return e.Booking.CourseID
	}
	return e.EventID
}
