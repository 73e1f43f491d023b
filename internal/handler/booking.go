package handler

import (
    "net/http" // HTTP status codes

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/railway-booking/internal/service" // booking engine
)

// BookingHandler serves seat booking and booking lookup.  Both routes sit
// behind JWTAuth, so a verified user ID is always on the context.
type BookingHandler struct {
    Bookings *service.BookingService
}

func NewBookingHandler(b *service.BookingService) *BookingHandler {
    return &BookingHandler{Bookings: b}
}

type bookReq struct {
    UserID    *uint64 `json:"user_id"`
    NoOfSeats *int    `json:"no_of_seats"`
}

// BookSeats handles POST /api/trains/:train_id/book.  The body's user_id
// must match the token subject; a token cannot book on behalf of someone
// else.
func (h *BookingHandler) BookSeats(c echo.Context) error {
    tokenUser, ok := getUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized. Invalid or expired token."})
    }
    trainID, ok := parseID(c, "train_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
    }
    var req bookReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.UserID == nil || req.NoOfSeats == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Both user_id and no_of_seats are required."})
    }
    if *req.UserID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id must be a positive integer"})
    }
    if *req.UserID != tokenUser {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "user_id does not match the authenticated user"})
    }

    b, err := h.Bookings.Book(c.Request().Context(), trainID, *req.UserID, *req.NoOfSeats)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message":      "Seat booked successfully",
        "booking_id":   b.ID,
        "seat_numbers": b.SeatNumbers,
    })
}

// GetBooking handles GET /api/bookings/:booking_id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    userID, ok := getUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized. Invalid or expired token."})
    }
    bookingID, ok := parseID(c, "booking_id")
    if !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
    }
    d, err := h.Bookings.GetBooking(c.Request().Context(), bookingID, userID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, d)
}
