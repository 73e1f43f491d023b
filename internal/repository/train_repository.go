package repository

import (
    "context"
    "database/sql"
    "fmt"

    "github.com/iliyamo/railway-booking/internal/model"
)

// TrainRepo manages persistence for trains and the availability query.
type TrainRepo struct {
    db *sql.DB
}

// NewTrainRepo returns a TrainRepo bound to the given database.
func NewTrainRepo(db *sql.DB) *TrainRepo { return &TrainRepo{db: db} }

// CreateTrain inserts a train and returns its generated ID.
func (r *TrainRepo) CreateTrain(ctx context.Context, t model.Train) (uint64, error) {
    const q = `INSERT INTO trains (train_name, source, destination, seat_capacity, arrival_time_at_source, arrival_time_at_destination)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        t.Name, t.Source, t.Destination, t.SeatCapacity,
        t.ArrivalTimeAtSource.UTC(), t.ArrivalTimeAtDestination.UTC())
    if err != nil {
        return 0, fmt.Errorf("insert train: %w", err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Availability returns one row per train whose source and destination
// match exactly.  Bookings are summed per train restricted to the same
// route pair; a train without bookings reports its full capacity.  The
// route columns use a binary collation so the comparison is
// case-sensitive.
func (r *TrainRepo) Availability(ctx context.Context, source, destination string) ([]model.TrainAvailability, error) {
    const q = `SELECT t.id, t.train_name, CAST(t.seat_capacity AS SIGNED) - COALESCE(b.total_booked, 0) AS available_seats
               FROM trains t
               LEFT JOIN (
                   SELECT train_id, SUM(num_of_seats) AS total_booked
                   FROM bookings
                   WHERE source = ? AND destination = ?
                   GROUP BY train_id
               ) b ON b.train_id = t.id
               WHERE t.source = ? AND t.destination = ?
               ORDER BY t.id`
    rows, err := r.db.QueryContext(ctx, q, source, destination, source, destination)
    if err != nil {
        return nil, fmt.Errorf("query availability: %w", err)
    }
    defer rows.Close()

    out := []model.TrainAvailability{}
    for rows.Next() {
        var a model.TrainAvailability
        if err := rows.Scan(&a.TrainID, &a.TrainName, &a.AvailableSeats); err != nil {
            return nil, err
        }
        out = append(out, a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
