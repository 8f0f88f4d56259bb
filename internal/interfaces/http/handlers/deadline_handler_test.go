package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juberis/reqtrack/internal/application/deadline"
	"github.com/juberis/reqtrack/internal/domain/scheduling"
	"github.com/juberis/reqtrack/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubEngine struct {
	inputs      *deadline.Inputs
	computation *deadline.Computation
	err         error

	gotInput deadline.ComputeInput
}

func (s *stubEngine) ResolveInputs(_ context.Context, pairingID, overrideID, sectorID string) (*deadline.Inputs, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.inputs, nil
}

func (s *stubEngine) Compute(_ context.Context, input deadline.ComputeInput) (*deadline.Computation, error) {
	s.gotInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.computation, nil
}

func deadlineRouter(engine DeadlineComputer) *gin.Engine {
	r := gin.New()
	h := NewDeadlineHandler(engine)
	r.GET("/api/v1/deadlines/inputs", h.Inputs)
	r.POST("/api/v1/deadlines/compute", h.Compute)
	return r
}

func TestDeadlineHandlerInputs(t *testing.T) {
	engine := &stubEngine{inputs: &deadline.Inputs{
		Delay:   scheduling.ResolvedDelay{Days: 5, PairingID: "p-1"},
		Cutoffs: scheduling.SectorCutoffs{SectorID: "legal", AutoCalculate: true},
	}}
	r := deadlineRouter(engine)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/deadlines/inputs?requestTypeServiceCategoryId=p-1&sectorId=legal", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"delayInDays":5`)
	assert.Contains(t, w.Body.String(), `"sectorId":"legal"`)
}

func TestDeadlineHandlerInputsNotFound(t *testing.T) {
	engine := &stubEngine{err: errors.New(errors.ErrCodePairingNotFound, "pairing not found")}
	r := deadlineRouter(engine)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/deadlines/inputs?requestTypeServiceCategoryId=missing&sectorId=legal", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), errors.ErrCodePairingNotFound.String())
}

func TestDeadlineHandlerCompute(t *testing.T) {
	engine := &stubEngine{computation: &deadline.Computation{
		PairingID:    "p-1",
		SectorID:     "legal",
		BusinessDays: 5,
		IsUrgent:     false,
	}}
	r := deadlineRouter(engine)

	body := `{
		"requestTypeServiceCategoryId": "p-1",
		"sectorId": "legal",
		"role": "client",
		"startDate": "2025-01-03",
		"startTime": "09:00",
		"completedAt": "2025-01-10T12:00:00Z"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deadlines/compute", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"businessDays":5`)

	assert.Equal(t, "p-1", engine.gotInput.PairingID)
	assert.Equal(t, deadline.Role("client"), engine.gotInput.Role)
	assert.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), engine.gotInput.StartDate)
	assert.Equal(t, "09:00:00", engine.gotInput.StartTime.String())
	require.NotNil(t, engine.gotInput.CompletedAt)
	assert.Equal(t, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC), engine.gotInput.CompletedAt.UTC())
}

func TestDeadlineHandlerComputeValidation(t *testing.T) {
	r := deadlineRouter(&stubEngine{})

	tests := []struct {
		name string
		body string
	}{
		{"missing required fields", `{"sectorId": "legal"}`},
		{"malformed json", `{`},
		{"bad start date", `{"requestTypeServiceCategoryId":"p-1","sectorId":"legal","startDate":"03/01/2025","startTime":"09:00"}`},
		{"bad start time", `{"requestTypeServiceCategoryId":"p-1","sectorId":"legal","startDate":"2025-01-03","startTime":"9am"}`},
		{"bad completedAt", `{"requestTypeServiceCategoryId":"p-1","sectorId":"legal","startDate":"2025-01-03","startTime":"09:00","completedAt":"yesterday"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/deadlines/compute", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestDeadlineHandlerComputeUnavailable(t *testing.T) {
	engine := &stubEngine{err: errors.New(errors.ErrCodeHolidaysUnavailable, "holiday calendar unavailable")}
	r := deadlineRouter(engine)

	body := `{"requestTypeServiceCategoryId":"p-1","sectorId":"legal","startDate":"2025-01-03","startTime":"09:00"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/deadlines/compute", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), errors.ErrCodeHolidaysUnavailable.String())
}
