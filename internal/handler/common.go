package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wesleysantana/restaurant-reservation/internal/model"
	"github.com/wesleysantana/restaurant-reservation/internal/repository"
	"github.com/wesleysantana/restaurant-reservation/internal/service"
)

// currentUserID extracts the user_id set by the JWT middleware and
// converts it to uint64. A nil return means the caller is not
// authenticated; the admission service turns that into an
// UnauthorizedUser rejection.
func currentUserID(c echo.Context) *uint64 {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return &t
	case int:
		n := uint64(t)
		return &n
	case int64:
		n := uint64(t)
		return &n
	case float64:
		n := uint64(t)
		return &n
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseRFC3339 parses a request timestamp and normalizes it to UTC.
func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// admissionStatus maps a rejection code to its HTTP status.
func admissionStatus(code service.Code) int {
	switch code {
	case service.CodeUnauthorizedUser:
		return http.StatusUnauthorized
	case service.CodeInvalidBusinessHours:
		return http.StatusBadRequest
	case service.CodeTableUnavailable:
		return http.StatusConflict
	case service.CodeReservationNotFound:
		return http.StatusNotFound
	case service.CodeForbiddenReservationCancellation:
		return http.StatusForbidden
	case service.CodeInvalidReservationCancellation:
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// writeError converts any error coming out of the service or repository
// layers into the right HTTP response. Business rejections carry their
// stable code; domain validation failures map to 400; unknown errors are
// storage/infra failures and surface as 500.
func writeError(c echo.Context, err error) error {
	var adm *service.AdmissionError
	if errors.As(err, &adm) {
		return c.JSON(admissionStatus(adm.Code), echo.Map{
			"code":  string(adm.Code),
			"error": adm.Message,
		})
	}
	if errors.Is(err, model.ErrInvalid) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	switch {
	case errors.Is(err, repository.ErrTableNotFound),
		errors.Is(err, repository.ErrReservationNotFound),
		errors.Is(err, repository.ErrRuleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
