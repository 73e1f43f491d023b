package model

import "time"

// Booking records a number of seats on a train for a user.  The seat
// numbers are allocated from a running count per train and are never
// reused.  Bookings are immutable once written.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who made the booking.
//  TrainID     – train being booked.
//  Source      – route source copied from the train at booking time.
//  Destination – route destination copied from the train at booking time.
//  NumOfSeats  – number of seats booked, always > 0.
//  SeatNumbers – allocated seat numbers, len(SeatNumbers) == NumOfSeats.
//  CreatedAt   – creation timestamp.
type Booking struct {
    ID          uint64    // bookings.id
    UserID      uint64    // bookings.user_id
    TrainID     uint64    // bookings.train_id
    Source      string    // bookings.source
    Destination string    // bookings.destination
    NumOfSeats  int       // bookings.num_of_seats
    SeatNumbers []int     // bookings.seat_numbers (JSON array)
    CreatedAt   time.Time // bookings.created_at
}

// BookingDetail is a booking joined with the train it references.  It is
// what the booking lookup endpoint returns.
type BookingDetail struct {
    BookingID                uint64    `json:"booking_id"`
    TrainID                  uint64    `json:"train_id"`
    TrainName                string    `json:"train_name"`
    UserID                   uint64    `json:"user_id"`
    NoOfSeats                int       `json:"no_of_seats"`
    SeatNumbers              []int     `json:"seat_numbers"`
    ArrivalTimeAtSource      time.Time `json:"arrival_time_at_source"`
    ArrivalTimeAtDestination time.Time `json:"arrival_time_at_destination"`
}
