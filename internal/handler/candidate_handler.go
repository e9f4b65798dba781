package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hiring-management-api/internal/importer"
	"hiring-management-api/internal/model"
	"hiring-management-api/internal/schedule"
	"hiring-management-api/internal/store"
)

func (h *Handler) ListCandidates(c *gin.Context) {
	cs, err := h.store.ListCandidates(c.Request.Context(), c.Query("campaign_id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": cs})
}

func (h *Handler) GetCandidate(c *gin.Context) {
	cand, err := h.store.GetCandidate(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "candidate not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, cand)
}

type createCandidateRequest struct {
	Name              string `json:"name" binding:"required"`
	Email             string `json:"email" binding:"required"`
	Phone             string `json:"phone"`
	TotalExperience   string `json:"total_experience"`
	Company           string `json:"company"`
	CTC               string `json:"ctc"`
	ECTC              string `json:"ectc"`
	OfferInHand       string `json:"offer_in_hand"`
	NoticePeriod      string `json:"notice_period"`
	CurrentLocation   string `json:"current_location"`
	PreferredLocation string `json:"preferred_location"`
	Availability      string `json:"availability"`
	CampaignID        string `json:"campaign_id" binding:"required"`
}

func (h *Handler) CreateCandidate(c *gin.Context) {
	var req createCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "name, email and campaign_id are required")
		return
	}
	if !schedule.ValidEmail(req.Email) {
		fail(c, http.StatusBadRequest, "invalid email address")
		return
	}

	cand := &model.Candidate{
		ID:                uuid.New().String(),
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		TotalExperience:   req.TotalExperience,
		Company:           req.Company,
		CTC:               req.CTC,
		ECTC:              req.ECTC,
		OfferInHand:       req.OfferInHand,
		NoticePeriod:      req.NoticePeriod,
		CurrentLocation:   req.CurrentLocation,
		PreferredLocation: req.PreferredLocation,
		Availability:      req.Availability,
		CampaignID:        req.CampaignID,
	}
	if err := h.store.CreateCandidate(c.Request.Context(), cand); err != nil {
		h.log.Error("creating candidate failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusCreated, cand)
}

// ImportCandidates ingests a multipart spreadsheet upload. The campaign
// context is validated before the file is opened; per-row failures are
// reported alongside the rows that did import.
func (h *Handler) ImportCandidates(c *gin.Context) {
	campaignID := c.PostForm("campaign_id")
	if campaignID == "" {
		fail(c, http.StatusBadRequest, importer.ErrMissingCampaign.Error())
		return
	}
	if _, err := h.store.GetCampaign(c.Request.Context(), campaignID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusBadRequest, "unknown campaign "+campaignID)
			return
		}
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "cannot read uploaded file")
		return
	}
	defer f.Close()

	res, err := importer.ImportSpreadsheet(f, campaignID)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if len(res.Candidates) > 0 {
		if err := h.store.CreateCandidates(c.Request.Context(), res.Candidates); err != nil {
			h.log.Error("persisting imported candidates failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, "internal error")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"imported":   len(res.Candidates),
		"candidates": res.Candidates,
		"failed":     res.Failed,
	})
}
