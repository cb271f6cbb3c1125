package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/venue-booking/internal/booking"
)

func TestRespondBookingErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			"invalid request",
			&booking.Error{Kind: booking.KindInvalidRequest, Code: "invalid_request", Message: "title is required"},
			http.StatusBadRequest, "invalid_request",
		},
		{
			"not found",
			&booking.Error{Kind: booking.KindNotFound, Code: "venue_not_found", Message: "venue does not exist"},
			http.StatusNotFound, "venue_not_found",
		},
		{
			"policy violation",
			&booking.Error{Kind: booking.KindPolicyViolation, Code: "lead_time", Message: "too soon"},
			http.StatusUnprocessableEntity, "lead_time",
		},
		{
			"conflict",
			&booking.Error{Kind: booking.KindConflict, Code: "venue_double_booked", Message: "slot taken"},
			http.StatusConflict, "venue_double_booked",
		},
		{
			"storage",
			&booking.Error{Kind: booking.KindStorage, Code: "storage_error", Message: "storage operation failed"},
			http.StatusInternalServerError, "storage_error",
		},
		{
			"unclassified",
			errors.New("driver: bad connection"),
			http.StatusInternalServerError, "internal",
		},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/events", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, respondBookingError(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body["error"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestGetUserIDAcceptsClaimRepresentations(t *testing.T) {
	e := echo.New()
	newCtx := func(v any) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if v != nil {
			c.Set("user_id", v)
		}
		return c
	}

	for _, v := range []any{uint64(7), int64(7), float64(7), "7"} {
		id, err := getUserID(newCtx(v))
		require.NoError(t, err)
		assert.Equal(t, uint64(7), id)
	}

	for _, v := range []any{nil, "abc", float64(0), int64(-1)} {
		_, err := getUserID(newCtx(v))
		assert.Error(t, err)
	}
}
