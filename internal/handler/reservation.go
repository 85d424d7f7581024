package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wesleysantana/restaurant-reservation/internal/queue"
	"github.com/wesleysantana/restaurant-reservation/internal/service"
)

// ReservationHandler exposes the admission service's two operations plus
// read endpoints over HTTP. JWT authentication runs in middleware; the
// user id is read from the request context and handed to the service as
// an explicit, possibly-nil value.
type ReservationHandler struct {
	Admission *service.Admission
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(admission *service.Admission) *ReservationHandler {
	if admission == nil {
		panic("nil admission service passed to NewReservationHandler")
	}
	return &ReservationHandler{Admission: admission}
}

// Make handles POST /v1/reservations. The body carries the table id, the
// requested half-open window as RFC3339 instants and the party size. On
// success it responds 201 with the created reservation and publishes a
// reservation.confirmed event; publish failures never fail the booking.
func (h *ReservationHandler) Make(c echo.Context) error {
	var body struct {
		TableID  uint64 `json:"table_id"`
		StartsAt string `json:"starts_at"`
		EndsAt   string `json:"ends_at"`
		Guests   int    `json:"guests"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	startsAt, err := parseRFC3339(body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	endsAt, err := parseRFC3339(body.EndsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC3339"})
	}

	ctx := c.Request().Context()
	res, err := h.Admission.MakeReservation(ctx, currentUserID(c), body.TableID, startsAt, endsAt, body.Guests)
	if err != nil {
		return writeError(c, err)
	}

	_ = queue.PublishReservationConfirmed(ctx, queue.ReservationConfirmedEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		TableID:       res.TableID,
		StartsAt:      res.StartsAt.Format(time.RFC3339),
		EndsAt:        res.EndsAt.Format(time.RFC3339),
		Guests:        res.Guests.Int(),
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"item": res})
}

// Cancel handles DELETE /v1/reservations/:id. It cancels a reservation
// belonging to the current user if it has not started yet, returning 204
// on success. Cancellation is idempotent at the ledger, but an already
// canceled reservation still belongs to its owner, so repeating the call
// also yields 204.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	resID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	res, freed, err := h.Admission.CancelReservation(ctx, currentUserID(c), resID)
	if err != nil {
		return writeError(c, err)
	}

	_ = queue.PublishReservationCanceled(ctx, queue.ReservationCanceledEvent{
		ReservationID: res.ID,
		UserID:        res.UserID,
		TableID:       res.TableID,
		TableFreed:    freed,
		CanceledAt:    time.Now().UTC().Format(time.RFC3339),
	})

	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/reservations/:id for the authenticated owner.
func (h *ReservationHandler) Get(c echo.Context) error {
	resID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Admission.GetReservation(c.Request().Context(), currentUserID(c), resID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// List handles GET /v1/my-reservations, returning the current user's
// reservations newest first. An empty list is a normal response.
func (h *ReservationHandler) List(c echo.Context) error {
	items, err := h.Admission.ListReservations(c.Request().Context(), currentUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
