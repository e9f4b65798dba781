package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hiring-management-api/internal/schedule"
	"hiring-management-api/internal/store"
)

// FetchSlots asks the upstream for the panel's common free slots on a
// date. ?all_hours=true hits the override endpoint that ignores working
// hours. Slots are never fetched implicitly; this is the explicit check.
func (h *Handler) FetchSlots(c *gin.Context) {
	sessionID := c.Param("id")

	date := c.Query("date")
	if date == "" {
		fail(c, http.StatusBadRequest, "date is required")
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		fail(c, http.StatusBadRequest, "date must be yyyy-MM-dd")
		return
	}

	if _, err := h.store.GetSchedulingSession(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusConflict, "no scheduling session found, save a panel first")
			return
		}
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	mode := schedule.SelectSingle
	if c.Query("mode") == string(schedule.SelectMultiple) {
		mode = schedule.SelectMultiple
	}

	allHours := c.Query("all_hours") == "true"
	cal := schedule.NewCalendar(mode)
	if err := cal.Check(c.Request.Context(), h.backend, sessionID, date, allHours); err != nil {
		upstreamFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":     cal.State(),
		"slots":     cal.Slots(),
		"all_hours": allHours,
	})
}
