package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatus_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("x"), http.StatusNotFound},
		{"sector not found", New(ErrCodeSectorNotFound, "x"), http.StatusNotFound},
		{"invalid input", InvalidInput("x"), http.StatusBadRequest},
		{"override mismatch", New(ErrCodeOverrideMismatch, "x"), http.StatusBadRequest},
		{"conflict", Conflict("x"), http.StatusConflict},
		{"unavailable", Unavailable("x"), http.StatusServiceUnavailable},
		{"holidays unavailable", New(ErrCodeHolidaysUnavailable, "x"), http.StatusServiceUnavailable},
		{"iteration cap", New(ErrCodeIterationCap, "x"), http.StatusInternalServerError},
		{"internal", Internal("x"), http.StatusInternalServerError},
		{"foreign error", errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Errorf("HTTPStatus = %d, want %d", got, tc.want)
			}
		})
	}
}
