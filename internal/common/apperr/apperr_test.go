package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindSeatConflict, http.StatusConflict},
		{KindWagonTripMismatch, http.StatusBadRequest},
		{KindInvalidSeat, http.StatusBadRequest},
		{KindMissingDocument, http.StatusBadRequest},
		{KindEmptyOrder, http.StatusBadRequest},
		{KindForbidden, http.StatusForbidden},
		{KindInvalidState, http.StatusConflict},
		{KindCancellationWindowClosed, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := New(tc.kind, "x").HTTPStatus(); got != tc.want {
			t.Errorf("kind %s: status = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestAsWrapsUnknownErrorsAsInternal(t *testing.T) {
	appErr := As(errors.New("pq: something leaked"))
	if appErr.Kind != KindInternal {
		t.Fatalf("kind = %s, want %s", appErr.Kind, KindInternal)
	}
	if appErr.Message != "internal server error" {
		t.Errorf("raw error message leaked: %q", appErr.Message)
	}
}

func TestAsUnwrapsWrappedError(t *testing.T) {
	inner := New(KindSeatConflict, "seat is already taken for this trip")
	wrapped := fmt.Errorf("create order: %w", inner)

	appErr := As(wrapped)
	if appErr != inner {
		t.Fatalf("As did not unwrap to the original error")
	}
	if !IsKind(wrapped, KindSeatConflict) {
		t.Error("IsKind should see through wrapping")
	}
}

func TestWithFieldAccumulates(t *testing.T) {
	err := New(KindValidation, "invalid ticket").
		WithField("seat_number", "invalid seat number").
		WithField("passenger_document", "document is required")

	if len(err.Fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(err.Fields))
	}
	if err.Fields["seat_number"] != "invalid seat number" {
		t.Errorf("unexpected field message: %q", err.Fields["seat_number"])
	}
}
