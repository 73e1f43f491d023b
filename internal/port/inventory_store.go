package port

import (
	"context"

	"github.com/iliyamo/railway-booking/internal/model"
)

// BookingLedger is the view of the inventory available inside a single
// booking transaction.  Every call made through it observes and writes
// the same snapshot of the locked train.
type BookingLedger interface {
	// LockTrain loads the train and holds an exclusive lock on it until the
	// transaction ends
	LockTrain(ctx context.Context, trainID uint64) (model.Train, error)

	// BookedSeats returns the sum of num_of_seats over the train's bookings
	BookedSeats(ctx context.Context, trainID uint64) (int, error)

	// InsertBooking persists the booking and fills in its ID
	InsertBooking(ctx context.Context, b *model.Booking) error
}

type InventoryStore interface {
	// WithinTrainTx runs fn in one transaction. A nil return commits, any
	// error rolls back every write made through the ledger
	WithinTrainTx(ctx context.Context, fn func(BookingLedger) error) error

	CreateTrain(ctx context.Context, t model.Train) (uint64, error)

	// Availability computes remaining seats per train on the exact route
	Availability(ctx context.Context, source, destination string) ([]model.TrainAvailability, error)

	// GetBookingDetail returns repository.ErrNotFound when the booking is missing
	GetBookingDetail(ctx context.Context, bookingID uint64) (model.BookingDetail, error)
}
