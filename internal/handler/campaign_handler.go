package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hiring-management-api/internal/model"
	"hiring-management-api/internal/store"
)

func (h *Handler) ListClients(c *gin.Context) {
	cs, err := h.store.ListClients(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": cs})
}

func (h *Handler) CreateClient(c *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required"`
		ContactEmail string `json:"contact_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}

	cl := &model.Client{
		ID:           uuid.New().String(),
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
	}
	if err := h.store.CreateClient(c.Request.Context(), cl); err != nil {
		h.log.Error("creating client failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusCreated, cl)
}

func (h *Handler) ListCampaigns(c *gin.Context) {
	cs, err := h.store.ListCampaigns(c.Request.Context(), c.Query("client_id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": cs})
}

func (h *Handler) CreateCampaign(c *gin.Context) {
	var req struct {
		ClientID       string `json:"client_id" binding:"required"`
		Title          string `json:"title" binding:"required"`
		JobDescription string `json:"job_description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "client_id and title are required")
		return
	}

	camp := &model.Campaign{
		ID:             uuid.New().String(),
		ClientID:       req.ClientID,
		Title:          req.Title,
		JobDescription: req.JobDescription,
		Status:         "active",
	}
	if err := h.store.CreateCampaign(c.Request.Context(), camp); err != nil {
		h.log.Error("creating campaign failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusCreated, camp)
}

// MatchResumes runs the upstream resume ranking for a campaign's job
// description. The ranking itself lives upstream; this endpoint only
// supplies the description and relays the ranked list.
func (h *Handler) MatchResumes(c *gin.Context) {
	campaignID := c.Param("id")

	camp, err := h.store.GetCampaign(c.Request.Context(), campaignID)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "campaign not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	if camp.JobDescription == "" {
		fail(c, http.StatusBadRequest, "campaign has no job description to match against")
		return
	}

	candidates, err := h.backend.MatchResumes(c.Request.Context(), campaignID, camp.JobDescription)
	if err != nil {
		upstreamFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}
