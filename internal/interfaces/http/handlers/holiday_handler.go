// Holiday calendar endpoints.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/juberis/reqtrack/internal/application/holidays"
	"github.com/juberis/reqtrack/internal/domain/calendar"
)

// HolidayWriter is the slice of the holidays service the handler needs.
type HolidayWriter interface {
	List(ctx context.Context) ([]calendar.Holiday, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]calendar.Holiday, error)
	Create(ctx context.Context, input holidays.CreateHolidayInput) (*calendar.Holiday, error)
	Delete(ctx context.Context, id string) error
}

// HolidayHandler serves the holiday calendar API.
type HolidayHandler struct {
	service HolidayWriter
}

// NewHolidayHandler creates a HolidayHandler backed by service.
func NewHolidayHandler(service HolidayWriter) *HolidayHandler {
	return &HolidayHandler{service: service}
}

// List handles GET /holidays.  Optional from/to query parameters narrow
// the result to a date range.
func (h *HolidayHandler) List(c *gin.Context) {
	fromStr := c.Query("from")
	toStr := c.Query("to")

	var (
		result []calendar.Holiday
		err    error
	)
	if fromStr != "" || toStr != "" {
		var from, to time.Time
		if from, err = calendar.ParseDate(fromStr, time.UTC); err != nil {
			respondValidation(c, "from must be YYYY-MM-DD")
			return
		}
		if to, err = calendar.ParseDate(toStr, time.UTC); err != nil {
			respondValidation(c, "to must be YYYY-MM-DD")
			return
		}
		result, err = h.service.ListBetween(c.Request.Context(), from, to)
	} else {
		result, err = h.service.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		result = []calendar.Holiday{}
	}
	c.JSON(http.StatusOK, result)
}

// Create handles POST /holidays.
func (h *HolidayHandler) Create(c *gin.Context) {
	var input holidays.CreateHolidayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidation(c, "invalid request body: "+err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Delete handles DELETE /holidays/:holidayID.
func (h *HolidayHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("holidayID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
