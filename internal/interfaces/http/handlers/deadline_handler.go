// Deadline computation endpoints.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juberis/reqtrack/internal/application/deadline"
	"github.com/juberis/reqtrack/internal/domain/calendar"
)

// DeadlineComputer is the slice of the computation engine the handler needs.
type DeadlineComputer interface {
	ResolveInputs(ctx context.Context, pairingID, overrideID, sectorID string) (*deadline.Inputs, error)
	Compute(ctx context.Context, input deadline.ComputeInput) (*deadline.Computation, error)
}

// DeadlineHandler serves the deadline computation API.
type DeadlineHandler struct {
	engine DeadlineComputer
}

// NewDeadlineHandler creates a DeadlineHandler backed by engine.
func NewDeadlineHandler(engine DeadlineComputer) *DeadlineHandler {
	return &DeadlineHandler{engine: engine}
}

// ComputeRequest is the POST /deadlines/compute payload.
type ComputeRequest struct {
	PairingID   string `json:"requestTypeServiceCategoryId" binding:"required"`
	OverrideID  string `json:"requestTypeDelayId"`
	SectorID    string `json:"sectorId" binding:"required"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	CompletedAt string `json:"completedAt"`
}

// Inputs handles GET /deadlines/inputs.  It resolves the delay and sector
// cutoff inputs without performing the business-day walk.
func (h *DeadlineHandler) Inputs(c *gin.Context) {
	pairingID := c.Query("requestTypeServiceCategoryId")
	overrideID := c.Query("requestTypeDelayId")
	sectorID := c.Query("sectorId")

	inputs, err := h.engine.ResolveInputs(c.Request.Context(), pairingID, overrideID, sectorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inputs)
}

// Compute handles POST /deadlines/compute.
func (h *DeadlineHandler) Compute(c *gin.Context) {
	var req ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body: "+err.Error())
		return
	}

	startDate, err := calendar.ParseDate(req.StartDate, time.UTC)
	if err != nil {
		respondValidation(c, "startDate must be YYYY-MM-DD")
		return
	}
	startTime, err := calendar.ParseTimeOfDay(req.StartTime)
	if err != nil {
		respondError(c, err)
		return
	}

	input := deadline.ComputeInput{
		PairingID:  req.PairingID,
		OverrideID: req.OverrideID,
		SectorID:   req.SectorID,
		Role:       deadline.Role(req.Role),
		StartDate:  startDate,
		StartTime:  startTime,
	}
	if req.CompletedAt != "" {
		completedAt, err := time.Parse(time.RFC3339, req.CompletedAt)
		if err != nil {
			respondValidation(c, "completedAt must be RFC 3339")
			return
		}
		input.CompletedAt = &completedAt
	}

	result, err := h.engine.Compute(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
