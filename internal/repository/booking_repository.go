package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "fmt"

    "github.com/iliyamo/railway-booking/internal/model"
    "github.com/iliyamo/railway-booking/internal/port"
)

// BookingRepo provides the transactional booking ledger and booking
// lookups.  All timestamp fields are stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// WithinTrainTx begins a transaction, hands fn a ledger bound to it, and
// commits only when fn returns nil.  Any error, including a failed
// commit, leaves no booking row behind.
func (r *BookingRepo) WithinTrainTx(ctx context.Context, fn func(port.BookingLedger) error) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return fmt.Errorf("begin tx: %w", err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&txLedger{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return fmt.Errorf("commit: %w", err)
    }
    committed = true
    return nil
}

// txLedger implements port.BookingLedger on an open transaction.
type txLedger struct {
    tx *sql.Tx
}

// LockTrain reads the train with SELECT ... FOR UPDATE.  Concurrent
// bookings for the same train block here until the holder commits or
// rolls back; bookings for other trains lock other rows.
func (l *txLedger) LockTrain(ctx context.Context, trainID uint64) (model.Train, error) {
    const q = `SELECT id, train_name, source, destination, seat_capacity, arrival_time_at_source, arrival_time_at_destination, created_at
               FROM trains WHERE id = ? FOR UPDATE`
    var t model.Train
    err := l.tx.QueryRowContext(ctx, q, trainID).Scan(
        &t.ID, &t.Name, &t.Source, &t.Destination, &t.SeatCapacity,
        &t.ArrivalTimeAtSource, &t.ArrivalTimeAtDestination, &t.CreatedAt,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return model.Train{}, ErrNotFound
    }
    if err != nil {
        return model.Train{}, fmt.Errorf("lock train: %w", err)
    }
    return t, nil
}

// BookedSeats sums num_of_seats over every booking on the train.
func (l *txLedger) BookedSeats(ctx context.Context, trainID uint64) (int, error) {
    var total int
    err := l.tx.QueryRowContext(ctx,
        `SELECT CAST(COALESCE(SUM(num_of_seats), 0) AS SIGNED) FROM bookings WHERE train_id = ?`,
        trainID).Scan(&total)
    if err != nil {
        return 0, fmt.Errorf("sum booked seats: %w", err)
    }
    return total, nil
}

// InsertBooking writes the booking row, storing seat numbers as a JSON
// array, and populates the generated ID and created_at.
func (l *txLedger) InsertBooking(ctx context.Context, b *model.Booking) error {
    seats, err := json.Marshal(b.SeatNumbers)
    if err != nil {
        return fmt.Errorf("encode seat numbers: %w", err)
    }
    const q = `INSERT INTO bookings (user_id, train_id, source, destination, num_of_seats, seat_numbers)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := l.tx.ExecContext(ctx, q, b.UserID, b.TrainID, b.Source, b.Destination, b.NumOfSeats, string(seats))
    if err != nil {
        return fmt.Errorf("insert booking: %w", err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return l.tx.QueryRowContext(ctx, `SELECT created_at FROM bookings WHERE id = ?`, b.ID).Scan(&b.CreatedAt)
}

// GetBookingDetail loads a booking joined with its train.  It returns
// ErrNotFound when no booking has the given ID.
func (r *BookingRepo) GetBookingDetail(ctx context.Context, bookingID uint64) (model.BookingDetail, error) {
    const q = `SELECT b.id, b.train_id, t.train_name, b.user_id, b.num_of_seats, b.seat_numbers,
                      t.arrival_time_at_source, t.arrival_time_at_destination
               FROM bookings b
               INNER JOIN trains t ON t.id = b.train_id
               WHERE b.id = ?`
    var d model.BookingDetail
    var seats []byte
    err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
        &d.BookingID, &d.TrainID, &d.TrainName, &d.UserID, &d.NoOfSeats, &seats,
        &d.ArrivalTimeAtSource, &d.ArrivalTimeAtDestination,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return model.BookingDetail{}, ErrNotFound
    }
    if err != nil {
        return model.BookingDetail{}, fmt.Errorf("query booking: %w", err)
    }
    if err := json.Unmarshal(seats, &d.SeatNumbers); err != nil {
        return model.BookingDetail{}, fmt.Errorf("decode seat numbers: %w", err)
    }
    return d, nil
}

// InventoryRepo combines the train and booking repositories into the
// single inventory store the services consume.
type InventoryRepo struct {
    *TrainRepo
    *BookingRepo
}

// NewInventoryRepo builds an InventoryRepo over one database handle.
func NewInventoryRepo(db *sql.DB) *InventoryRepo {
    return &InventoryRepo{TrainRepo: NewTrainRepo(db), BookingRepo: NewBookingRepo(db)}
}

var _ port.InventoryStore = (*InventoryRepo)(nil)
var _ port.UserStore = (*UserRepo)(nil)
