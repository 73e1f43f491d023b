// Package memstore is an in-process implementation of the user and
// inventory ports.  It backs STORE_DRIVER=memory and the service and
// handler tests.  Booking transactions on the same train are serialized
// by a per-train mutex and staged writes are applied only on commit, which
// gives the same guarantees as the MySQL row lock.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/railway-booking/internal/model"
	"github.com/iliyamo/railway-booking/internal/port"
	"github.com/iliyamo/railway-booking/internal/repository"
)

type Store struct {
	mu         sync.RWMutex
	users      map[uint64]model.User
	trains     map[uint64]model.Train
	bookings   map[uint64]model.Booking
	trainLocks map[uint64]*sync.Mutex
	nextUser   uint64
	nextTrain  uint64
	nextBook   uint64

	// calls counts store method invocations so tests can assert that a
	// rejected request never reached storage
	calls int
}

func New() *Store {
	return &Store{
		users:      make(map[uint64]model.User),
		trains:     make(map[uint64]model.Train),
		bookings:   make(map[uint64]model.Booking),
		trainLocks: make(map[uint64]*sync.Mutex),
	}
}

// Calls returns how many store methods have been invoked.
func (s *Store) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

func (s *Store) touch() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

// Usernames compare byte for byte, like the utf8mb4_bin username column.
func (s *Store) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	s.touch()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateUser(ctx context.Context, u model.User) (uint64, error) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return 0, repository.ErrDuplicate
		}
	}
	s.nextUser++
	u.ID = s.nextUser
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u.ID, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	s.touch()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

// UserCount returns the number of stored users.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Store) CreateTrain(ctx context.Context, t model.Train) (uint64, error) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTrain++
	t.ID = s.nextTrain
	t.CreatedAt = time.Now().UTC()
	s.trains[t.ID] = t
	s.trainLocks[t.ID] = &sync.Mutex{}
	return t.ID, nil
}

func (s *Store) Availability(ctx context.Context, source, destination string) ([]model.TrainAvailability, error) {
	s.touch()
	s.mu.RLock()
	defer s.mu.RUnlock()
	booked := make(map[uint64]int)
	for _, b := range s.bookings {
		if b.Source == source && b.Destination == destination {
			booked[b.TrainID] += b.NumOfSeats
		}
	}
	out := []model.TrainAvailability{}
	for _, t := range s.trains {
		if t.Source != source || t.Destination != destination {
			continue
		}
		out = append(out, model.TrainAvailability{
			TrainID:        t.ID,
			TrainName:      t.Name,
			AvailableSeats: t.SeatCapacity - booked[t.ID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrainID < out[j].TrainID })
	return out, nil
}

func (s *Store) GetBookingDetail(ctx context.Context, bookingID uint64) (model.BookingDetail, error) {
	s.touch()
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return model.BookingDetail{}, repository.ErrNotFound
	}
	t := s.trains[b.TrainID]
	return model.BookingDetail{
		BookingID:                b.ID,
		TrainID:                  b.TrainID,
		TrainName:                t.Name,
		UserID:                   b.UserID,
		NoOfSeats:                b.NumOfSeats,
		SeatNumbers:              append([]int(nil), b.SeatNumbers...),
		ArrivalTimeAtSource:      t.ArrivalTimeAtSource,
		ArrivalTimeAtDestination: t.ArrivalTimeAtDestination,
	}, nil
}

// BookingCount returns the number of committed bookings.
func (s *Store) BookingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

// WithinTrainTx runs fn against a ledger whose inserts are staged and only
// become visible when fn returns nil.  Train locks taken through
// LockTrain are released when the transaction ends.
func (s *Store) WithinTrainTx(ctx context.Context, fn func(port.BookingLedger) error) error {
	s.touch()
	l := &ledger{s: s}
	defer l.release()
	if err := fn(l); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range l.staged {
		s.nextBook++
		b.ID = s.nextBook
		s.bookings[b.ID] = *b
	}
	return nil
}

type ledger struct {
	s      *Store
	held   []*sync.Mutex
	staged []*model.Booking
}

func (l *ledger) release() {
	for i := len(l.held) - 1; i >= 0; i-- {
		l.held[i].Unlock()
	}
	l.held = nil
}

func (l *ledger) LockTrain(ctx context.Context, trainID uint64) (model.Train, error) {
	l.s.mu.RLock()
	mu, ok := l.s.trainLocks[trainID]
	l.s.mu.RUnlock()
	if !ok {
		return model.Train{}, repository.ErrNotFound
	}
	mu.Lock()
	l.held = append(l.held, mu)
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	return l.s.trains[trainID], nil
}

func (l *ledger) BookedSeats(ctx context.Context, trainID uint64) (int, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	total := 0
	for _, b := range l.s.bookings {
		if b.TrainID == trainID {
			total += b.NumOfSeats
		}
	}
	for _, b := range l.staged {
		if b.TrainID == trainID {
			total += b.NumOfSeats
		}
	}
	return total, nil
}

// InsertBooking stages the booking.  Its ID is assigned on commit, so the
// pointer is kept and updated in place.
func (l *ledger) InsertBooking(ctx context.Context, b *model.Booking) error {
	b.CreatedAt = time.Now().UTC()
	b.SeatNumbers = append([]int(nil), b.SeatNumbers...)
	l.staged = append(l.staged, b)
	return nil
}

var _ port.InventoryStore = (*Store)(nil)
var _ port.UserStore = (*Store)(nil)
