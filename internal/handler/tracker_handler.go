package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hiring-management-api/internal/backend"
	"hiring-management-api/internal/model"
	"hiring-management-api/internal/schedule"
	"hiring-management-api/internal/store"
)

// TrackEvent polls the upstream for RSVP state of a scheduled event. The
// upstream reports responses as free text; they are coerced onto the
// closed RSVP set before leaving this service.
func (h *Handler) TrackEvent(c *gin.Context) {
	status, ok := h.fetchEventStatus(c, c.Param("sessionID"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, status)
}

type rescheduleRequest struct {
	Slot model.TimeSlot `json:"slot"`
}

// RescheduleEvent moves the event to a new slot and returns the refreshed
// status. Attendees are unchanged.
func (h *Handler) RescheduleEvent(c *gin.Context) {
	sessionID := c.Param("sessionID")

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := schedule.FormatSlotTimestamp(req.Slot, req.Slot.Start)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	end, err := schedule.FormatSlotTimestamp(req.Slot, req.Slot.End)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	update := backend.UpdateEventRequest{NewSlot: &backend.EventSlot{Start: start, End: end}}
	if err := h.backend.UpdateEvent(c.Request.Context(), sessionID, update); err != nil {
		upstreamFail(c, err)
		return
	}

	status, ok := h.fetchEventStatus(c, sessionID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, status)
}

type replacePanelistRequest struct {
	RemoveEmail       string `json:"remove_email" binding:"required"`
	ReplacementUserID string `json:"replacement_user_id" binding:"required"`
}

// ReplacePanelist swaps a declined panelist for another directory user on
// both the calendar event and the stored session panel.
func (h *Handler) ReplacePanelist(c *gin.Context) {
	sessionID := c.Param("sessionID")

	var req replacePanelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "remove_email and replacement_user_id are required")
		return
	}

	sess, err := h.store.GetSchedulingSession(c.Request.Context(), sessionID)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "scheduling session not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	u, err := h.store.UserByID(c.Request.Context(), req.ReplacementUserID)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusBadRequest, "unknown user "+req.ReplacementUserID)
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	repl, err := schedule.ReplacePanelist(sess.Panel, req.RemoveEmail, schedule.ToPanelMember(*u))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	update := backend.UpdateEventRequest{BeforeEmails: repl.Before, AfterEmails: repl.After}
	if err := h.backend.UpdateEvent(c.Request.Context(), sessionID, update); err != nil {
		upstreamFail(c, err)
		return
	}

	if err := h.store.UpdateSessionPanel(c.Request.Context(), sessionID, repl.Panel); err != nil {
		// event is already updated upstream; report but keep going
		h.log.Error("persisting replaced panel failed",
			zap.String("session_id", sessionID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	status, ok := h.fetchEventStatus(c, sessionID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"panel": repl.Panel, "status": status})
}

func (h *Handler) fetchEventStatus(c *gin.Context, sessionID string) (*model.EventStatus, bool) {
	raw, err := h.backend.TrackEvent(c.Request.Context(), sessionID)
	if err != nil {
		upstreamFail(c, err)
		return nil, false
	}

	status := &model.EventStatus{
		SessionID:         raw.SessionID,
		CandidateResponse: schedule.CoerceRSVP(raw.CandidateResponse),
		Slot:              raw.Slot,
	}
	if status.SessionID == "" {
		status.SessionID = sessionID
	}
	for _, p := range raw.Panelists {
		status.Panelists = append(status.Panelists, model.PanelistResponse{
			Email:       p.Email,
			DisplayName: p.DisplayName,
			Response:    schedule.CoerceRSVP(p.Response),
			RespondedAt: p.RespondedAt,
		})
	}
	return status, true
}
