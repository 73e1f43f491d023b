package model

import "time"

// Train describes a scheduled train on a single source/destination
// route.  Trains are created by an administrative call and are not
// mutated afterwards.
//
// Fields:
//  ID                       – primary key identifier.
//  Name                     – display name of the train.
//  Source                   – departure station (matched case-sensitively).
//  Destination              – arrival station (matched case-sensitively).
//  SeatCapacity             – total number of bookable seats, always > 0.
//  ArrivalTimeAtSource      – when the train reaches its source station.
//  ArrivalTimeAtDestination – when the train reaches its destination.
//  CreatedAt                – creation timestamp.
type Train struct {
    ID                       uint64    // trains.id
    Name                     string    // trains.train_name
    Source                   string    // trains.source
    Destination              string    // trains.destination
    SeatCapacity             int       // trains.seat_capacity
    ArrivalTimeAtSource      time.Time // trains.arrival_time_at_source
    ArrivalTimeAtDestination time.Time // trains.arrival_time_at_destination
    CreatedAt                time.Time // trains.created_at
}

// TrainAvailability is one row of the availability query: a train on the
// requested route and the seats that remain unbooked on it.
type TrainAvailability struct {
    TrainID        uint64 `json:"TrainID"`
    TrainName      string `json:"train_name"`
    AvailableSeats int    `json:"available_seats"`
}
