package handler

import (
    "errors"   // errors.Is for validation failures
    "log"      // log storage failures
    "net/http" // HTTP status codes

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/railway-booking/internal/service"
)

// TrainHandler serves train creation and availability.
type TrainHandler struct {
    Trains *service.TrainService
}

func NewTrainHandler(t *service.TrainService) *TrainHandler {
    return &TrainHandler{Trains: t}
}

type createTrainReq struct {
    TrainName                string `json:"train_name"`
    Source                   string `json:"source"`
    Destination              string `json:"destination"`
    SeatCapacity             int    `json:"seat_capacity"`
    ArrivalTimeAtSource      string `json:"arrival_time_at_source"`
    ArrivalTimeAtDestination string `json:"arrival_time_at_destination"`
}

// CreateTrain handles POST /api/trains/create.  Storage errors are
// reported with their raw message, as administrative clients rely on it.
func (h *TrainHandler) CreateTrain(c echo.Context) error {
    var req createTrainReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Train creation failed", "error": "invalid request body"})
    }
    id, err := h.Trains.CreateTrain(c.Request().Context(), service.NewTrain{
        Name:                     req.TrainName,
        Source:                   req.Source,
        Destination:              req.Destination,
        SeatCapacity:             req.SeatCapacity,
        ArrivalTimeAtSource:      req.ArrivalTimeAtSource,
        ArrivalTimeAtDestination: req.ArrivalTimeAtDestination,
    })
    if err != nil {
        status := http.StatusInternalServerError
        if errors.Is(err, service.ErrValidation) {
            status = http.StatusBadRequest
        } else {
            log.Printf("handler: create train failed: %v", err)
        }
        return c.JSON(status, echo.Map{"message": "Train creation failed", "error": err.Error()})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message":  "Train added successfully",
        "train_id": id,
    })
}

// Availability handles GET /api/trains/availability?source=&destination=.
// Query values are used verbatim; matching is exact and case-sensitive.
func (h *TrainHandler) Availability(c echo.Context) error {
    source := c.QueryParam("source")
    destination := c.QueryParam("destination")
    if source == "" || destination == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Both source and destination parameters are required."})
    }
    rows, err := h.Trains.Availability(c.Request().Context(), source, destination)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, rows)
}
