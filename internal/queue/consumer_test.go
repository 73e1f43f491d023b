package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatLine(t *testing.T) {
	line := FormatLine(BookingCreatedEvent{
		BookingID:   7,
		UserID:      3,
		TrainID:     2,
		TrainName:   "Rajdhani",
		Source:      "Delhi",
		Destination: "Mumbai",
		SeatNumbers: []int{4, 5},
		BookedAt:    "2026-01-02T10:00:00Z",
	})

	want := `[2026-01-02T10:00:00Z] Booking created | booking_id=7 | user_id=3 | train_id=2 | train="Rajdhani" | route="Delhi -> Mumbai" | seats=[4,5]` + "\n"
	if line != want {
		t.Errorf("unexpected line:\n got: %q\nwant: %q", line, want)
	}
}

func TestHandleMessage_AppendsLines(t *testing.T) {
	dir := t.TempDir()
	c := &Consumer{LogPath: filepath.Join(dir, "logs", "booking.log")}

	for _, id := range []uint64{1, 2} {
		body, _ := json.Marshal(BookingCreatedEvent{BookingID: id, SeatNumbers: []int{1}})
		if err := c.HandleMessage(body); err != nil {
			t.Fatalf("HandleMessage failed: %v", err)
		}
	}

	data, err := os.ReadFile(c.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[1], "booking_id=2") {
		t.Errorf("expected second line for booking 2, got %q", lines[1])
	}
}

func TestHandleMessage_InvalidJSON(t *testing.T) {
	c := &Consumer{LogPath: filepath.Join(t.TempDir(), "booking.log")}

	if err := c.HandleMessage([]byte("{not json")); err == nil {
		t.Error("expected error for malformed body")
	}
	if _, err := os.Stat(c.LogPath); !os.IsNotExist(err) {
		t.Error("log file should not be created for a rejected message")
	}
}
