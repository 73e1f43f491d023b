// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedQueue is the durable queue booking events are routed to.
const BookingCreatedQueue = "booking.created"

// BookingCreatedEvent is published after a booking transaction commits.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database.
type BookingCreatedEvent struct {
    EventID     string `json:"event_id"`
    BookingID   uint64 `json:"booking_id"`
    UserID      uint64 `json:"user_id"`
    TrainID     uint64 `json:"train_id"`
    TrainName   string `json:"train_name"`
    Source      string `json:"source"`
    Destination string `json:"destination"`
    SeatNumbers []int  `json:"seat_numbers"`
    BookedAt    string `json:"booked_at"`
}
