package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/railway-booking/internal/model"
	"github.com/iliyamo/railway-booking/internal/port"
)

// Layouts accepted for arrival times, tried in order.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

type TrainService struct {
	store port.InventoryStore
}

func NewTrainService(store port.InventoryStore) *TrainService {
	return &TrainService{store: store}
}

// NewTrain is the input to CreateTrain.  Times are strings as received
// from clients and are parsed here.
type NewTrain struct {
	Name                     string
	Source                   string
	Destination              string
	SeatCapacity             int
	ArrivalTimeAtSource      string
	ArrivalTimeAtDestination string
}

// CreateTrain validates and stores a train, returning its ID.
func (s *TrainService) CreateTrain(ctx context.Context, in NewTrain) (uint64, error) {
	t := model.Train{
		Name:         strings.TrimSpace(in.Name),
		Source:       in.Source,
		Destination:  in.Destination,
		SeatCapacity: in.SeatCapacity,
	}
	if t.Name == "" || t.Source == "" || t.Destination == "" {
		return 0, fmt.Errorf("%w: train_name, source and destination are required", ErrValidation)
	}
	if t.SeatCapacity <= 0 {
		return 0, fmt.Errorf("%w: seat_capacity must be a positive integer", ErrValidation)
	}
	var err error
	if t.ArrivalTimeAtSource, err = parseTime(in.ArrivalTimeAtSource); err != nil {
		return 0, fmt.Errorf("%w: invalid arrival_time_at_source", ErrValidation)
	}
	if t.ArrivalTimeAtDestination, err = parseTime(in.ArrivalTimeAtDestination); err != nil {
		return 0, fmt.Errorf("%w: invalid arrival_time_at_destination", ErrValidation)
	}
	return s.store.CreateTrain(ctx, t)
}

// Availability lists remaining seats for every train on the exact
// source/destination pair.  Matching is case-sensitive.
func (s *TrainService) Availability(ctx context.Context, source, destination string) ([]model.TrainAvailability, error) {
	if source == "" || destination == "" {
		return nil, fmt.Errorf("%w: both source and destination are required", ErrValidation)
	}
	return s.store.Availability(ctx, source, destination)
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
