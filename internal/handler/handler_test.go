package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-booking/internal/memstore"
	"github.com/iliyamo/railway-booking/internal/middleware"
	"github.com/iliyamo/railway-booking/internal/model"
	"github.com/iliyamo/railway-booking/internal/service"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: no_of_seats must be positive", service.ErrValidation), http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrTrainNotFound, http.StatusNotFound},
		{service.ErrBookingNotFound, http.StatusNotFound},
		{service.ErrDuplicateUser, http.StatusConflict},
		{fmt.Errorf("book: %w", service.ErrCapacityExceeded), http.StatusConflict},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := errorStatus(tc.err); got != tc.want {
			t.Errorf("errorStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

// bookWith runs BookSeats with a user already placed on the context, as
// JWTAuth would do.
func bookWith(h *BookingHandler, tokenUser uint64, trainParam, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/trains/"+trainParam+"/book", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("train_id")
	c.SetParamValues(trainParam)
	c.Set(middleware.CtxUserID, tokenUser)
	_ = h.BookSeats(c)
	return rec
}

func TestBookSeats_RequestChecks(t *testing.T) {
	store := memstore.New()
	h := NewBookingHandler(service.NewBookingService(store, nil))

	cases := []struct {
		name  string
		train string
		body  string
		want  int
	}{
		{"missing seats", "1", `{"user_id":7}`, http.StatusBadRequest},
		{"missing user", "1", `{"no_of_seats":2}`, http.StatusBadRequest},
		{"bad train id", "abc", `{"user_id":7,"no_of_seats":2}`, http.StatusBadRequest},
		{"zero user", "1", `{"user_id":0,"no_of_seats":2}`, http.StatusBadRequest},
		{"subject mismatch", "1", `{"user_id":8,"no_of_seats":2}`, http.StatusForbidden},
		{"zero seats", "1", `{"user_id":7,"no_of_seats":0}`, http.StatusBadRequest},
		{"unknown train", "99", `{"user_id":7,"no_of_seats":1}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := bookWith(h, 7, tc.train, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
	if store.BookingCount() != 0 {
		t.Errorf("rejected requests wrote %d bookings", store.BookingCount())
	}
}

func TestBookSeats_MaxIntSeatsIsConflict(t *testing.T) {
	store := memstore.New()
	trainID, err := store.CreateTrain(context.Background(), model.Train{
		Name: "Duronto", Source: "Pune", Destination: "Nagpur", SeatCapacity: 10,
	})
	if err != nil {
		t.Fatalf("seed train: %v", err)
	}
	h := NewBookingHandler(service.NewBookingService(store, nil))
	train := strconv.FormatUint(trainID, 10)

	if rec := bookWith(h, 7, train, `{"user_id":7,"no_of_seats":1}`); rec.Code != http.StatusCreated {
		t.Fatalf("first booking: %d %s", rec.Code, rec.Body.String())
	}
	rec := bookWith(h, 7, train, `{"user_id":7,"no_of_seats":9223372036854775807}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", rec.Code, rec.Body.String())
	}
	if store.BookingCount() != 1 {
		t.Errorf("expected 1 booking, got %d", store.BookingCount())
	}
}

func TestAvailability_RequiresBothParams(t *testing.T) {
	store := memstore.New()
	h := NewTrainHandler(service.NewTrainService(store))
	e := echo.New()
	e.GET("/a", h.Availability)

	for _, q := range []string{"", "?source=Delhi", "?destination=Agra"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/a"+q, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", q, rec.Code)
		}
	}
	if store.Calls() != 0 {
		t.Errorf("store touched %d times for invalid queries", store.Calls())
	}
}

func TestCreateTrain_Responses(t *testing.T) {
	store := memstore.New()
	h := NewTrainHandler(service.NewTrainService(store))
	e := echo.New()
	e.POST("/t", h.CreateTrain)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/t", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"train_name":"Rajdhani","source":"Mumbai","destination":"Delhi","seat_capacity":40,
		"arrival_time_at_source":"2026-11-01 08:00:00","arrival_time_at_destination":"2026-11-01T20:30:00Z"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var ok struct {
		Message string `json:"message"`
		TrainID uint64 `json:"train_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ok); err != nil || ok.TrainID == 0 || ok.Message != "Train added successfully" {
		t.Fatalf("unexpected body %s (err %v)", rec.Body.String(), err)
	}

	rec = post(`{"train_name":"Rajdhani","source":"Mumbai","destination":"Delhi","seat_capacity":0,
		"arrival_time_at_source":"2026-11-01 08:00:00","arrival_time_at_destination":"2026-11-01 20:30:00"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Train creation failed") {
		t.Fatalf("zero capacity: status = %d, body %s", rec.Code, rec.Body.String())
	}
}
