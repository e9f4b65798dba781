package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hiring-management-api/internal/middleware"
	"hiring-management-api/internal/model"
	"hiring-management-api/internal/schedule"
	"hiring-management-api/internal/store"
)

// ListUsers serves the panel-selection directory. With ?role= the response
// also carries the members auto-selected by the role's job-title mapping;
// ?q= filters the manual checklist.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	users = schedule.SearchUsers(users, c.Query("q"))

	resp := gin.H{"users": users}
	if role := c.Query("role"); role != "" {
		resp["auto_selected"] = schedule.MembersForRole(users, role)
	}
	c.JSON(http.StatusOK, resp)
}

type savePanelRequest struct {
	UserIDs     []string `json:"user_ids" binding:"required"`
	Role        string   `json:"role"`
	CandidateID string   `json:"candidate_id"`
	CampaignID  string   `json:"campaign_id"`
	ClientID    string   `json:"client_id"`
	// SessionID switches to edit context: the existing session's panel is
	// replaced instead of a new session being created.
	SessionID string `json:"session_id"`
}

// SavePanel persists a panel selection. In new context it creates a
// scheduling session and returns its id; in edit context it updates the
// panel on the existing session.
func (h *Handler) SavePanel(c *gin.Context) {
	var req savePanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "user_ids is required")
		return
	}

	members, err := h.resolveMembers(c, req.UserIDs, req.Role)
	if err != nil {
		return // response already written
	}
	if err := schedule.ValidatePanel(members); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.SessionID != "" {
		if err := h.store.UpdateSessionPanel(c.Request.Context(), req.SessionID, members); err != nil {
			if err == store.ErrNotFound {
				fail(c, http.StatusConflict, "no scheduling session found")
				return
			}
			fail(c, http.StatusInternalServerError, "internal error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": req.SessionID, "members": members})
		return
	}

	sess := &model.SchedulingSession{
		ID:          uuid.New().String(),
		UserID:      middleware.UserID(c),
		CandidateID: req.CandidateID,
		CampaignID:  req.CampaignID,
		ClientID:    req.ClientID,
		Panel:       members,
	}
	if err := h.store.CreateSchedulingSession(c.Request.Context(), sess); err != nil {
		h.log.Error("creating scheduling session failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sess.ID, "members": members})
}

func (h *Handler) resolveMembers(c *gin.Context, userIDs []string, role string) ([]model.PanelMember, error) {
	members := make([]model.PanelMember, 0, len(userIDs))
	for _, id := range userIDs {
		u, err := h.store.UserByID(c.Request.Context(), id)
		if err == store.ErrNotFound {
			fail(c, http.StatusBadRequest, "unknown user "+id)
			return nil, err
		}
		if err != nil {
			fail(c, http.StatusInternalServerError, "internal error")
			return nil, err
		}
		m := schedule.ToPanelMember(*u)
		if role != "" {
			m.Role = role
		}
		members = append(members, m)
	}
	return members, nil
}
