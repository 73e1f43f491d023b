package port

import (
	"context"

	"github.com/iliyamo/railway-booking/internal/queue"
)

type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
}
