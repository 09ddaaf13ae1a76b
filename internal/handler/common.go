package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/banquet-hall-booking/internal/model"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64.  JWT claims decoded from JSON arrive as float64, so several
// representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole extracts the role claim stored by the JWTAuth middleware.
func getRole(c echo.Context) (model.Role, error) {
	v := c.Get("role")
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid role in context")
	}
	r := model.Role(s)
	if !r.IsValid() {
		return "", errors.New("unknown role in context")
	}
	return r, nil
}

// writeDomainError translates the shared error taxonomy into an HTTP
// response.  Unknown errors become an opaque 500; the detail string of
// a recognised kind is passed through to the caller.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrInventoryConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
