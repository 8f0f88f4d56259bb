package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juberis/reqtrack/internal/application/deadline"
	"github.com/juberis/reqtrack/pkg/errors"
)

func TestComputeBuildInput(t *testing.T) {
	opts := &computeOptions{
		pairingID:   "p-1",
		sectorID:    "legal",
		role:        "provider",
		startDate:   "2025-01-03",
		startTime:   "09:30",
		completedAt: "2025-01-10T17:00:00Z",
	}

	input, err := opts.buildInput()
	require.NoError(t, err)
	assert.Equal(t, "p-1", input.PairingID)
	assert.Equal(t, deadline.RoleProvider, input.Role)
	assert.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), input.StartDate)
	assert.Equal(t, "09:30:00", input.StartTime.String())
	require.NotNil(t, input.CompletedAt)
}

func TestComputeBuildInputErrors(t *testing.T) {
	tests := []struct {
		name string
		opts computeOptions
	}{
		{"bad date", computeOptions{startDate: "Friday", startTime: "09:00"}},
		{"bad time", computeOptions{startDate: "2025-01-03", startTime: "morning"}},
		{"bad completedAt", computeOptions{startDate: "2025-01-03", startTime: "09:00", completedAt: "later"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.buildInput()
			require.Error(t, err)
			assert.True(t, errors.IsInvalidInput(err))
		})
	}
}
