// Package backend is the HTTP edge to the external scheduling/matching
// service. Slot intersection, resume ranking, mail dispatch and OAuth
// initiation all live upstream; this client only carries requests across.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"hiring-management-api/internal/model"
)

// Error is an upstream failure with the message text the upstream reported,
// when it reported one. No call is ever retried; callers surface the error
// and let the user re-trigger the action.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
}

type Client struct {
	base string
	http *http.Client
	log  *zap.Logger
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// InitiateLogin asks the upstream for the OAuth redirect URL. The user id
// comes back as a query parameter on the post-redirect callback.
func (c *Client) InitiateLogin(ctx context.Context) (string, error) {
	var out struct {
		RedirectURL string `json:"redirect_url"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/initiate", nil, &out); err != nil {
		return "", err
	}
	return out.RedirectURL, nil
}

// MatchResumes runs the upstream resume search for a campaign's job
// description and returns ranked candidates.
func (c *Client) MatchResumes(ctx context.Context, campaignID, jobDescription string) ([]model.Candidate, error) {
	in := map[string]string{
		"campaign_id":     campaignID,
		"job_description": jobDescription,
	}
	var out struct {
		Candidates []model.Candidate `json:"candidates"`
	}
	if err := c.do(ctx, http.MethodPost, "/resumes/match", in, &out); err != nil {
		return nil, err
	}
	return out.Candidates, nil
}

// FetchSlots returns the computed common free slots for the session's panel
// on a date. allHours hits the override endpoint that ignores working hours.
func (c *Client) FetchSlots(ctx context.Context, sessionID, date string, allHours bool) ([]model.TimeSlot, error) {
	path := "/slots"
	if allHours {
		path = "/slots/all-hours"
	}
	q := url.Values{}
	q.Set("session_id", sessionID)
	q.Set("date", date)

	var out struct {
		Slots []model.TimeSlot `json:"slots"`
	}
	if err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Slots, nil
}

type EventSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ScheduleEventRequest struct {
	SessionID        string                 `json:"session_id"`
	CandidateID      string                 `json:"candidate_id"`
	Slot             EventSlot              `json:"slot"`
	CandidateSlots   []EventSlot            `json:"candidate_slots,omitempty"`
	SchedulingOption model.SchedulingOption `json:"scheduling_option"`
	Mail             model.MailDraft        `json:"mail"`
}

// ScheduleEvent dispatches the candidate notification and books the event.
func (c *Client) ScheduleEvent(ctx context.Context, req ScheduleEventRequest) error {
	return c.do(ctx, http.MethodPost, "/events/schedule", req, nil)
}

// SyncRound pushes a round snapshot upstream. Callers treat failures as
// non-fatal; local state is authoritative.
func (c *Client) SyncRound(ctx context.Context, r model.InterviewRound) error {
	return c.do(ctx, http.MethodPost, "/interview-rounds", r, nil)
}

// FetchRounds hydrates previously synced rounds for a triple.
func (c *Client) FetchRounds(ctx context.Context, candidateID, campaignID, clientID string) ([]model.InterviewRound, error) {
	q := url.Values{}
	q.Set("candidate_id", candidateID)
	q.Set("campaign_id", campaignID)
	q.Set("client_id", clientID)

	var out struct {
		Rounds []model.InterviewRound `json:"rounds"`
	}
	if err := c.do(ctx, http.MethodGet, "/interview-rounds?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Rounds, nil
}

// RawEventStatus is the upstream's view of an event, response values left
// as free text for the tracker to coerce.
type RawEventStatus struct {
	SessionID         string          `json:"session_id"`
	CandidateResponse string          `json:"candidate_response"`
	Panelists         []RawPanelist   `json:"panelists"`
	Slot              *model.TimeSlot `json:"slot,omitempty"`
}

type RawPanelist struct {
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	Response    string     `json:"response"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

func (c *Client) TrackEvent(ctx context.Context, sessionID string) (*RawEventStatus, error) {
	var out RawEventStatus
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type UpdateEventRequest struct {
	BeforeEmails []string   `json:"before_emails,omitempty"`
	AfterEmails  []string   `json:"after_emails,omitempty"`
	NewSlot      *EventSlot `json:"new_slot,omitempty"`
}

// UpdateEvent replaces attendees and/or moves the event to a new slot.
func (c *Client) UpdateEvent(ctx context.Context, sessionID string, req UpdateEventRequest) error {
	return c.do(ctx, http.MethodPut, "/events/"+url.PathEscape(sessionID), req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "request failed"
		var e struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
			msg = e.Error
		}
		c.log.Warn("backend call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("backend: decode response: %w", err)
		}
	}
	return nil
}
