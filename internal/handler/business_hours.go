package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wesleysantana/restaurant-reservation/internal/model"
	"github.com/wesleysantana/restaurant-reservation/internal/repository"
	"github.com/wesleysantana/restaurant-reservation/internal/service"
)

// BusinessHoursHandler manages the opening-hours calendar. Rule reads and
// the open check are public; rule writes are registered behind the ADMIN
// role.
type BusinessHoursHandler struct {
	Rules    *repository.BusinessHoursRuleRepo
	Calendar *service.Calendar
}

// NewBusinessHoursHandler constructs a BusinessHoursHandler.
func NewBusinessHoursHandler(rules *repository.BusinessHoursRuleRepo, calendar *service.Calendar) *BusinessHoursHandler {
	if rules == nil || calendar == nil {
		panic("nil dependency passed to NewBusinessHoursHandler")
	}
	return &BusinessHoursHandler{Rules: rules, Calendar: calendar}
}

// ruleRequest is the JSON body for rule writes. Dates use YYYY-MM-DD,
// clock times use HH:MM, weekday is 0 (Sunday) through 6 (Saturday).
type ruleRequest struct {
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	SpecificDate *string `json:"specific_date"`
	Weekday      *int    `json:"weekday"`
	Open         *string `json:"open"`
	Close        *string `json:"close"`
	Closed       bool    `json:"closed"`
}

type ruleFields struct {
	startDate    time.Time
	endDate      time.Time
	specificDate *time.Time
	weekday      *time.Weekday
	open         *model.TimeOfDay
	close        *model.TimeOfDay
	closed       bool
}

func (body *ruleRequest) parse() (*ruleFields, string) {
	startDate, err := time.Parse(time.DateOnly, body.StartDate)
	if err != nil {
		return nil, "start_date must be YYYY-MM-DD"
	}
	endDate, err := time.Parse(time.DateOnly, body.EndDate)
	if err != nil {
		return nil, "end_date must be YYYY-MM-DD"
	}
	f := &ruleFields{startDate: startDate, endDate: endDate, closed: body.Closed}
	if body.SpecificDate != nil {
		d, err := time.Parse(time.DateOnly, *body.SpecificDate)
		if err != nil {
			return nil, "specific_date must be YYYY-MM-DD"
		}
		f.specificDate = &d
	}
	if body.Weekday != nil {
		if *body.Weekday < 0 || *body.Weekday > 6 {
			return nil, "weekday must be between 0 and 6"
		}
		day := time.Weekday(*body.Weekday)
		f.weekday = &day
	}
	if body.Open != nil {
		t, err := model.ParseTimeOfDay(*body.Open)
		if err != nil {
			return nil, "open must be HH:MM"
		}
		f.open = &t
	}
	if body.Close != nil {
		t, err := model.ParseTimeOfDay(*body.Close)
		if err != nil {
			return nil, "close must be HH:MM"
		}
		f.close = &t
	}
	return f, ""
}

// List handles GET /v1/business-hours.
func (h *BusinessHoursHandler) List(c echo.Context) error {
	items, err := h.Rules.GetAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []*model.BusinessHoursRule{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/business-hours/:id.
func (h *BusinessHoursHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rule id"})
	}
	rule, err := h.Rules.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": rule})
}

// Create handles POST /v1/business-hours. The rule constructor enforces
// the shape invariants, so contradictory rules never reach the database.
func (h *BusinessHoursHandler) Create(c echo.Context) error {
	var body ruleRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	f, msg := body.parse()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	rule, err := model.NewBusinessHoursRule(f.startDate, f.endDate, f.specificDate, f.weekday, f.open, f.close, f.closed)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Rules.Create(c.Request().Context(), rule); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": rule})
}

// Update handles PUT /v1/business-hours/:id. The body is a full rule
// replacement; it validates as a whole before anything is persisted.
func (h *BusinessHoursHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rule id"})
	}
	var body ruleRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	f, msg := body.parse()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	rule, err := h.Rules.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if err := rule.Update(f.startDate, f.endDate, f.specificDate, f.weekday, f.open, f.close, f.closed); err != nil {
		return writeError(c, err)
	}
	if err := h.Rules.Update(ctx, rule); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": rule})
}

// Delete handles DELETE /v1/business-hours/:id.
func (h *BusinessHoursHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rule id"})
	}
	if err := h.Rules.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Check handles GET /v1/business-hours/check?starts_at=...&ends_at=...,
// reporting whether the window falls inside business hours. Clients can
// probe before attempting a booking.
func (h *BusinessHoursHandler) Check(c echo.Context) error {
	startsAt, err := parseRFC3339(c.QueryParam("starts_at"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	endsAt, err := parseRFC3339(c.QueryParam("ends_at"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC3339"})
	}
	if !endsAt.After(startsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}
	open, err := h.Calendar.IsOpen(c.Request().Context(), startsAt, endsAt)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"open": open})
}
