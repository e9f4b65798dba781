package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hiring-management-api/internal/model"
	"hiring-management-api/internal/store"
)

type detailsRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Duration          int    `json:"duration"`
	Date              string `json:"date"`
	Location          string `json:"location"`
	MeetingType       string `json:"meeting_type"`
	PreferredTimezone string `json:"preferred_timezone"`
}

// validate mirrors the form's client-side rules: title, description and
// date are required; location only when the meeting is in person.
func (r *detailsRequest) validate() map[string]string {
	errs := map[string]string{}
	if r.Title == "" {
		errs["title"] = "title is required"
	}
	if r.Description == "" {
		errs["description"] = "description is required"
	}
	if r.Date == "" {
		errs["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		errs["date"] = "date must be yyyy-MM-dd"
	}
	mt := model.MeetingType(r.MeetingType)
	if mt != model.MeetingInPerson && mt != model.MeetingVirtual {
		errs["meeting_type"] = "meeting_type must be in-person or virtual"
	}
	if mt == model.MeetingInPerson && r.Location == "" {
		errs["location"] = "location is required for in-person interviews"
	}
	if r.Duration <= 0 {
		errs["duration"] = "duration must be positive"
	}
	return errs
}

// SaveDetails stores round metadata on an existing scheduling session.
// A missing session is a prerequisite failure, not a validation one.
func (h *Handler) SaveDetails(c *gin.Context) {
	sessionID := c.Param("id")

	var req detailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": errs})
		return
	}

	details := &model.InterviewDetails{
		Title:             req.Title,
		Description:       req.Description,
		Duration:          req.Duration,
		Date:              req.Date,
		Location:          req.Location,
		MeetingType:       model.MeetingType(req.MeetingType),
		PreferredTimezone: req.PreferredTimezone,
	}

	err := h.store.SaveSessionDetails(c.Request.Context(), sessionID, details)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusConflict, "no scheduling session found, save a panel first")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	// echo the submitted details, not a re-read
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "details": details})
}
