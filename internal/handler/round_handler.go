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

// roundTriple identifies the round list a request operates on. Rounds are
// always keyed by candidate + campaign + client.
type roundTriple struct {
	CandidateID string `json:"candidate_id"`
	CampaignID  string `json:"campaign_id"`
	ClientID    string `json:"client_id"`
}

func (t roundTriple) complete() bool {
	return t.CandidateID != "" && t.CampaignID != "" && t.ClientID != ""
}

func tripleFromQuery(c *gin.Context) (roundTriple, bool) {
	t := roundTriple{
		CandidateID: c.Query("candidate_id"),
		CampaignID:  c.Query("campaign_id"),
		ClientID:    c.Query("client_id"),
	}
	if !t.complete() {
		fail(c, http.StatusBadRequest, "candidate_id, campaign_id and client_id are required")
		return t, false
	}
	return t, true
}

func (h *Handler) loadRounds(c *gin.Context, t roundTriple) (*schedule.RoundList, bool) {
	rounds, err := h.store.ListRounds(c.Request.Context(), t.CandidateID, t.CampaignID, t.ClientID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return schedule.NewRoundList(t.CandidateID, t.CampaignID, t.ClientID, rounds), true
}

func (h *Handler) persistRounds(c *gin.Context, l *schedule.RoundList) bool {
	err := h.store.ReplaceRounds(c.Request.Context(), l.CandidateID, l.CampaignID, l.ClientID, l.Rounds)
	if err != nil {
		h.log.Error("persisting rounds failed", zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal error")
		return false
	}
	if err := h.store.SaveSchemaNames(c.Request.Context(), l.CandidateID, l.CampaignID, l.ClientID, l.SchemaNames()); err != nil {
		h.log.Warn("persisting schema names failed", zap.Error(err))
	}
	return true
}

// ListRounds returns the rounds for a triple. When nothing is stored
// locally it hydrates from the upstream's round snapshots, preferring
// upstream data when present.
func (h *Handler) ListRounds(c *gin.Context) {
	t, ok := tripleFromQuery(c)
	if !ok {
		return
	}
	l, ok := h.loadRounds(c, t)
	if !ok {
		return
	}

	if len(l.Rounds) == 0 {
		remote, err := h.backend.FetchRounds(c.Request.Context(), t.CandidateID, t.CampaignID, t.ClientID)
		if err != nil {
			h.log.Warn("round hydration failed", zap.Error(err))
		} else if len(remote) > 0 {
			l = schedule.NewRoundList(t.CandidateID, t.CampaignID, t.ClientID, remote)
			if err := h.store.ReplaceRounds(c.Request.Context(), t.CandidateID, t.CampaignID, t.ClientID, l.Rounds); err != nil {
				h.log.Warn("persisting hydrated rounds failed", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"rounds": l.Rounds, "schema_names": l.SchemaNames()})
}

type addRoundRequest struct {
	roundTriple
	Name string `json:"name" binding:"required"`
}

func (h *Handler) AddRound(c *gin.Context) {
	var req addRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}
	if !req.complete() {
		fail(c, http.StatusBadRequest, "candidate_id, campaign_id and client_id are required")
		return
	}

	l, ok := h.loadRounds(c, req.roundTriple)
	if !ok {
		return
	}
	round := l.Add(req.Name)
	if !h.persistRounds(c, l) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"round": round, "rounds": l.Rounds})
}

// RemoveRound deletes a round and renumbers the rest. Round 1 is
// permanent: the request is accepted but nothing changes.
func (h *Handler) RemoveRound(c *gin.Context) {
	t, ok := tripleFromQuery(c)
	if !ok {
		return
	}
	l, ok := h.loadRounds(c, t)
	if !ok {
		return
	}

	removed := l.Remove(c.Param("id"))
	if removed && !h.persistRounds(c, l) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed, "rounds": l.Rounds})
}

func (h *Handler) RenameRound(c *gin.Context) {
	t, ok := tripleFromQuery(c)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "name is required")
		return
	}

	l, ok := h.loadRounds(c, t)
	if !ok {
		return
	}
	if !l.Rename(c.Param("id"), req.Name) {
		fail(c, http.StatusNotFound, "round not found")
		return
	}
	if !h.persistRounds(c, l) {
		return
	}
	round := l.Get(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"round": round, "slug": schedule.Slugify(round.Name)})
}

type selectSlotRequest struct {
	Slots            []model.TimeSlot       `json:"slots"`
	SchedulingOption model.SchedulingOption `json:"scheduling_option"`
	SessionID        string                 `json:"session_id"`
}

// SelectSlot records the chosen slot(s) and moves the round to scheduled.
// Direct invites carry exactly one slot; candidate choice carries the
// shortlist in the order the user picked it.
func (h *Handler) SelectSlot(c *gin.Context) {
	t, ok := tripleFromQuery(c)
	if !ok {
		return
	}
	var req selectSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Slots) == 0 {
		fail(c, http.StatusBadRequest, schedule.ErrNoSlotSelected.Error())
		return
	}
	switch req.SchedulingOption {
	case model.OptionDirect:
		if len(req.Slots) != 1 {
			fail(c, http.StatusBadRequest, "direct invites take exactly one slot")
			return
		}
	case model.OptionCandidateChoice:
	default:
		fail(c, http.StatusBadRequest, "scheduling_option must be direct or candidate_choice")
		return
	}

	l, ok := h.loadRounds(c, t)
	if !ok {
		return
	}
	round := l.Get(c.Param("id"))
	if round == nil {
		fail(c, http.StatusNotFound, "round not found")
		return
	}

	if err := schedule.Advance(round, model.RoundScheduled); err != nil {
		fail(c, http.StatusConflict, err.Error())
		return
	}
	round.SelectedSlots = req.Slots
	round.SchedulingOption = req.SchedulingOption
	if req.SessionID != "" {
		round.SessionID = req.SessionID
	}

	if err := h.store.UpdateRound(c.Request.Context(), round); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			fail(c, http.StatusConflict, "round was modified elsewhere, reload and retry")
			return
		}
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"round": round, "mail_draft": h.defaultDraft(c, round)})
}

// defaultDraft pre-fills the notification email for the chosen slots. Best
// effort: a missing candidate or session just means no prefill.
func (h *Handler) defaultDraft(c *gin.Context, round *model.InterviewRound) *model.MailDraft {
	cand, err := h.store.GetCandidate(c.Request.Context(), round.CandidateID)
	if err != nil {
		return nil
	}
	var details model.InterviewDetails
	if round.SessionID != "" {
		if sess, err := h.store.GetSchedulingSession(c.Request.Context(), round.SessionID); err == nil && sess.Details != nil {
			details = *sess.Details
		}
	}
	mode := schedule.SelectSingle
	if round.SchedulingOption == model.OptionCandidateChoice {
		mode = schedule.SelectMultiple
	}
	d := schedule.BuildDraft(*cand, details, round.SelectedSlots, mode)
	return &d
}

type notifyRequest struct {
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	To      []string `json:"to"`
	Cc      []string `json:"cc"`
}

// NotifyCandidate dispatches the scheduling email through the upstream and
// completes the round. The completion is optimistic: the upstream round
// sync afterwards is best effort, and a failure there is recorded on the
// round without rolling the status back.
func (h *Handler) NotifyCandidate(c *gin.Context) {
	t, ok := tripleFromQuery(c)
	if !ok {
		return
	}
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.To) == 0 {
		fail(c, http.StatusBadRequest, "at least one recipient is required")
		return
	}
	for _, addr := range append(append([]string{}, req.To...), req.Cc...) {
		if !schedule.ValidEmail(addr) {
			fail(c, http.StatusBadRequest, "invalid email address: "+addr)
			return
		}
	}

	l, ok := h.loadRounds(c, t)
	if !ok {
		return
	}
	round := l.Get(c.Param("id"))
	if round == nil {
		fail(c, http.StatusNotFound, "round not found")
		return
	}
	switch round.Status {
	case model.RoundDraft:
		fail(c, http.StatusConflict, "select a time slot before notifying the candidate")
		return
	case model.RoundCompleted:
		fail(c, http.StatusConflict, "round is already completed")
		return
	}
	if len(round.SelectedSlots) == 0 {
		fail(c, http.StatusConflict, "round has no selected slots")
		return
	}

	event, err := buildScheduleEvent(round, t, req)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.backend.ScheduleEvent(c.Request.Context(), *event); err != nil {
		upstreamFail(c, err)
		return
	}

	if err := schedule.Advance(round, model.RoundCompleted); err != nil {
		// the event is booked; reaching here means a racing writer
		fail(c, http.StatusConflict, err.Error())
		return
	}

	round.SyncError = ""
	if err := h.backend.SyncRound(c.Request.Context(), *round); err != nil {
		h.log.Warn("round sync failed",
			zap.String("round_id", round.ID), zap.Error(err))
		round.SyncError = err.Error()
	}

	if err := h.store.UpdateRound(c.Request.Context(), round); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			fail(c, http.StatusConflict, "round was modified elsewhere, reload and retry")
			return
		}
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"round": round})
}

func buildScheduleEvent(round *model.InterviewRound, t roundTriple, req notifyRequest) (*backend.ScheduleEventRequest, error) {
	first := round.SelectedSlots[0]
	start, err := schedule.FormatSlotTimestamp(first, first.Start)
	if err != nil {
		return nil, err
	}
	end, err := schedule.FormatSlotTimestamp(first, first.End)
	if err != nil {
		return nil, err
	}

	event := &backend.ScheduleEventRequest{
		SessionID:        round.SessionID,
		CandidateID:      t.CandidateID,
		Slot:             backend.EventSlot{Start: start, End: end},
		SchedulingOption: round.SchedulingOption,
		Mail: model.MailDraft{
			Subject: req.Subject,
			Body:    req.Body,
			To:      req.To,
			Cc:      req.Cc,
		},
	}

	if round.SchedulingOption == model.OptionCandidateChoice {
		for _, s := range round.SelectedSlots {
			ss, err := schedule.FormatSlotTimestamp(s, s.Start)
			if err != nil {
				return nil, err
			}
			se, err := schedule.FormatSlotTimestamp(s, s.End)
			if err != nil {
				return nil, err
			}
			event.CandidateSlots = append(event.CandidateSlots, backend.EventSlot{Start: ss, End: se})
		}
	}
	return event, nil
}

func (h *Handler) GetSchema(c *gin.Context) {
	t, ok := tripleFromQuery(c)
	if !ok {
		return
	}
	names, err := h.store.GetSchemaNames(c.Request.Context(), t.CandidateID, t.CampaignID, t.ClientID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"names": names})
}

func (h *Handler) SaveSchema(c *gin.Context) {
	t, ok := tripleFromQuery(c)
	if !ok {
		return
	}
	var req struct {
		Names []string `json:"names" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "names is required")
		return
	}
	if err := h.store.SaveSchemaNames(c.Request.Context(), t.CandidateID, t.CampaignID, t.ClientID, req.Names); err != nil {
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"names": req.Names})
}
