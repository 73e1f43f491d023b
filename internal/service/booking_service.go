package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/railway-booking/internal/model"
	"github.com/iliyamo/railway-booking/internal/port"
	"github.com/iliyamo/railway-booking/internal/queue"
	"github.com/iliyamo/railway-booking/internal/repository"
)

const publishTimeout = 5 * time.Second

type BookingService struct {
	store  port.InventoryStore
	events port.EventPublisher
}

// NewBookingService returns a booking engine over store.  events may be
// nil, in which case no booking.created events are emitted.
func NewBookingService(store port.InventoryStore, events port.EventPublisher) *BookingService {
	return &BookingService{store: store, events: events}
}

// AllocateSeats returns the seat numbers for a booking of requested seats
// on a train that already has booked seats taken: booked+1..booked+requested.
// Numbers come from a running count and are never reused.
func AllocateSeats(booked, requested int) []int {
	seats := make([]int, requested)
	for i := range seats {
		seats[i] = booked + i + 1
	}
	return seats
}

// Book reserves requested seats on a train for a user.  The capacity
// check and the insert run in one transaction that holds the train lock,
// so concurrent bookings on the same train cannot jointly oversell it.
// On any error nothing is written.
func (s *BookingService) Book(ctx context.Context, trainID, userID uint64, requested int) (model.Booking, error) {
	if trainID == 0 || userID == 0 {
		return model.Booking{}, fmt.Errorf("%w: train_id and user_id are required", ErrValidation)
	}
	if requested <= 0 {
		return model.Booking{}, fmt.Errorf("%w: no_of_seats must be a positive integer", ErrValidation)
	}

	var (
		train   model.Train
		booking model.Booking
	)
	err := s.store.WithinTrainTx(ctx, func(l port.BookingLedger) error {
		var err error
		train, err = l.LockTrain(ctx, trainID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainNotFound
		}
		if err != nil {
			return err
		}
		booked, err := l.BookedSeats(ctx, trainID)
		if err != nil {
			return err
		}
		if requested > train.SeatCapacity-booked {
			return fmt.Errorf("%w: %d requested, %d remaining", ErrCapacityExceeded, requested, train.SeatCapacity-booked)
		}
		booking = model.Booking{
			UserID:      userID,
			TrainID:     trainID,
			Source:      train.Source,
			Destination: train.Destination,
			NumOfSeats:  requested,
			SeatNumbers: AllocateSeats(booked, requested),
		}
		return l.InsertBooking(ctx, &booking)
	})
	if err != nil {
		return model.Booking{}, err
	}

	s.publish(train, booking)
	return booking, nil
}

// publish emits booking.created in the background.  Failures are logged
// only; the booking is already committed.
func (s *BookingService) publish(train model.Train, b model.Booking) {
	if s.events == nil {
		return
	}
	ev := queue.BookingCreatedEvent{
		EventID:     uuid.NewString(),
		BookingID:   b.ID,
		UserID:      b.UserID,
		TrainID:     b.TrainID,
		TrainName:   train.Name,
		Source:      b.Source,
		Destination: b.Destination,
		SeatNumbers: b.SeatNumbers,
		BookedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.events.PublishBookingCreated(ctx, ev); err != nil {
			log.Printf("booking: publish booking.created for booking_id=%d failed: %v", b.ID, err)
		}
	}()
}

// GetBooking returns a booking with its train details.  A requester that
// does not own the booking gets ErrForbidden.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, requesterID uint64) (model.BookingDetail, error) {
	if bookingID == 0 {
		return model.BookingDetail{}, fmt.Errorf("%w: invalid booking id", ErrValidation)
	}
	d, err := s.store.GetBookingDetail(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.BookingDetail{}, ErrBookingNotFound
	}
	if err != nil {
		return model.BookingDetail{}, err
	}
	if d.UserID != requesterID {
		return model.BookingDetail{}, ErrForbidden
	}
	return d, nil
}
