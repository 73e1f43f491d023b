package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/railway-booking/internal/database"
	"github.com/iliyamo/railway-booking/internal/model"
	"github.com/iliyamo/railway-booking/internal/port"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/railway_test?parseTime=true&loc=UTC"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		t.Skipf("MySQL not available: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func uniqueSuffix() string { return fmt.Sprintf("%d", time.Now().UnixNano()) }

func seedTrain(t *testing.T, inv *InventoryRepo, capacity int) model.Train {
	t.Helper()
	tr := model.Train{
		Name:                     "Express-" + uniqueSuffix(),
		Source:                   "Src-" + uniqueSuffix(),
		Destination:              "Dst-" + uniqueSuffix(),
		SeatCapacity:             capacity,
		ArrivalTimeAtSource:      time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
		ArrivalTimeAtDestination: time.Date(2026, 1, 1, 14, 0, 0, 0, time.UTC),
	}
	id, err := inv.CreateTrain(context.Background(), tr)
	if err != nil {
		t.Fatalf("CreateTrain failed: %v", err)
	}
	tr.ID = id
	return tr
}

func seedUser(t *testing.T, users *UserRepo) uint64 {
	t.Helper()
	s := uniqueSuffix()
	id, err := users.CreateUser(context.Background(), model.User{
		Username: "user-" + s, Email: s + "@example.com", PasswordDigest: "x", Role: model.RoleLoginUser,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return id
}

func book(ctx context.Context, inv *InventoryRepo, tr model.Train, userID uint64, n int) (model.Booking, error) {
	var b model.Booking
	err := inv.WithinTrainTx(ctx, func(l port.BookingLedger) error {
		locked, err := l.LockTrain(ctx, tr.ID)
		if err != nil {
			return err
		}
		booked, err := l.BookedSeats(ctx, tr.ID)
		if err != nil {
			return err
		}
		if booked+n > locked.SeatCapacity {
			return errors.New("capacity exceeded")
		}
		b = model.Booking{UserID: userID, TrainID: tr.ID, Source: tr.Source, Destination: tr.Destination, NumOfSeats: n}
		for i := 1; i <= n; i++ {
			b.SeatNumbers = append(b.SeatNumbers, booked+i)
		}
		return l.InsertBooking(ctx, &b)
	})
	return b, err
}

func TestUserRepo_DuplicateUsername(t *testing.T) {
	users := NewUserRepo(getMySQLDB(t))
	ctx := context.Background()
	s := uniqueSuffix()

	u := model.User{Username: "dup-" + s, Email: s + "@a.example", PasswordDigest: "x", Role: model.RoleLoginUser}
	if _, err := users.CreateUser(ctx, u); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	u.Email = s + "@b.example"
	if _, err := users.CreateUser(ctx, u); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	u.Username = "DUP-" + s
	u.Email = s + "@c.example"
	if _, err := users.CreateUser(ctx, u); err != nil {
		t.Errorf("usernames differing only in case must both be accepted: %v", err)
	}

	exists, err := users.ExistsByUsernameOrEmail(ctx, "nobody-"+s, s+"@a.example")
	if err != nil || !exists {
		t.Errorf("expected email to be reported taken, got exists=%v err=%v", exists, err)
	}
	if _, err := users.GetUserByUsername(ctx, "missing-"+s); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInventoryRepo_BookAndAvailability(t *testing.T) {
	db := getMySQLDB(t)
	inv := NewInventoryRepo(db)
	ctx := context.Background()
	tr := seedTrain(t, inv, 50)
	uid := seedUser(t, NewUserRepo(db))

	rows, err := inv.Availability(ctx, tr.Source, tr.Destination)
	if err != nil {
		t.Fatalf("Availability failed: %v", err)
	}
	if len(rows) != 1 || rows[0].AvailableSeats != 50 {
		t.Fatalf("expected one train with 50 seats, got %+v", rows)
	}

	first, err := book(ctx, inv, tr, uid, 3)
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if _, err := book(ctx, inv, tr, uid, 2); err != nil {
		t.Fatalf("second booking failed: %v", err)
	}

	rows, _ = inv.Availability(ctx, tr.Source, tr.Destination)
	if rows[0].AvailableSeats != 45 {
		t.Errorf("expected 45 available, got %d", rows[0].AvailableSeats)
	}

	// case-sensitive route match
	rows, _ = inv.Availability(ctx, "src-"+tr.Source[4:], tr.Destination)
	if len(rows) != 0 {
		t.Errorf("expected no match for differently-cased source, got %+v", rows)
	}

	d, err := inv.GetBookingDetail(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetBookingDetail failed: %v", err)
	}
	if d.TrainName != tr.Name || len(d.SeatNumbers) != 3 || d.SeatNumbers[2] != 3 {
		t.Errorf("unexpected detail: %+v", d)
	}
	if _, err := inv.GetBookingDetail(ctx, first.ID+1_000_000); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInventoryRepo_ConcurrentBookingsNeverOversell(t *testing.T) {
	db := getMySQLDB(t)
	inv := NewInventoryRepo(db)
	tr := seedTrain(t, inv, 10)
	uid := seedUser(t, NewUserRepo(db))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = book(context.Background(), inv, tr, uid, 3)
		}()
	}
	wg.Wait()

	var total int
	if err := db.QueryRow(`SELECT COALESCE(SUM(num_of_seats),0) FROM bookings WHERE train_id = ?`, tr.ID).Scan(&total); err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if total != 9 {
		t.Errorf("expected exactly 9 seats booked (3 bookings of 3), got %d", total)
	}
}

func TestWithinTrainTx_RollsBackOnError(t *testing.T) {
	db := getMySQLDB(t)
	inv := NewInventoryRepo(db)
	ctx := context.Background()
	tr := seedTrain(t, inv, 5)
	uid := seedUser(t, NewUserRepo(db))

	boom := errors.New("boom")
	err := inv.WithinTrainTx(ctx, func(l port.BookingLedger) error {
		b := model.Booking{UserID: uid, TrainID: tr.ID, Source: tr.Source, Destination: tr.Destination, NumOfSeats: 1, SeatNumbers: []int{1}}
		if err := l.InsertBooking(ctx, &b); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	rows, _ := inv.Availability(ctx, tr.Source, tr.Destination)
	if len(rows) != 1 || rows[0].AvailableSeats != 5 {
		t.Errorf("expected rollback to leave 5 seats, got %+v", rows)
	}
}
