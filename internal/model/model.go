package model

import "time"

type RoundStatus string

const (
	RoundDraft     RoundStatus = "draft"
	RoundScheduled RoundStatus = "scheduled"
	RoundCompleted RoundStatus = "completed"
)

type SchedulingOption string

const (
	OptionDirect          SchedulingOption = "direct"
	OptionCandidateChoice SchedulingOption = "candidate_choice"
)

type MeetingType string

const (
	MeetingInPerson MeetingType = "in-person"
	MeetingVirtual  MeetingType = "virtual"
)

type RSVP string

const (
	RSVPPending    RSVP = "pending"
	RSVPAccepted   RSVP = "accepted"
	RSVPDeclined   RSVP = "declined"
	RSVPNoResponse RSVP = "no_response"
)

type User struct {
	ID           string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"display_name"`
	JobTitle     string    `json:"job_title"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PanelMember is a read-only projection of a directory user assigned to a round.
type PanelMember struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

type InterviewDetails struct {
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Duration          int         `json:"duration"` // minutes
	Date              string      `json:"date"`     // yyyy-MM-dd
	Location          string      `json:"location,omitempty"`
	MeetingType       MeetingType `json:"meeting_type"`
	PreferredTimezone string      `json:"preferred_timezone,omitempty"`
}

// TimeSlot is computed upstream; the service treats it as opaque except for
// display formatting and selection membership.
type TimeSlot struct {
	ID               string   `json:"id"`
	Start            string   `json:"start"` // HH:mm
	End              string   `json:"end"`   // HH:mm
	Date             string   `json:"date"`  // yyyy-MM-dd
	Available        bool     `json:"available"`
	AvailableMembers []string `json:"available_members,omitempty"`
}

type InterviewRound struct {
	ID               string            `json:"id"`
	RoundNumber      int               `json:"round_number"`
	Name             string            `json:"name"`
	Status           RoundStatus       `json:"status"`
	Panel            []PanelMember     `json:"panel"`
	Details          *InterviewDetails `json:"details,omitempty"`
	SelectedSlots    []TimeSlot        `json:"selected_slots,omitempty"`
	SchedulingOption SchedulingOption  `json:"scheduling_option,omitempty"`
	CandidateID      string            `json:"candidate_id"`
	CampaignID       string            `json:"campaign_id"`
	ClientID         string            `json:"client_id"`
	SessionID        string            `json:"session_id,omitempty"`
	// SyncError holds the last failed best-effort upstream sync; it never
	// blocks or reverts a local status transition.
	SyncError string    `json:"sync_error,omitempty"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Candidate struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	TotalExperience   string    `json:"total_experience,omitempty"`
	Company           string    `json:"company,omitempty"`
	CTC               string    `json:"ctc,omitempty"`
	ECTC              string    `json:"ectc,omitempty"`
	OfferInHand       string    `json:"offer_in_hand,omitempty"`
	NoticePeriod      string    `json:"notice_period,omitempty"`
	CurrentLocation   string    `json:"current_location,omitempty"`
	PreferredLocation string    `json:"preferred_location,omitempty"`
	Availability      string    `json:"availability,omitempty"`
	CampaignID        string    `json:"campaign_id"`
	CreatedAt         time.Time `json:"created_at"`
}

type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Campaign struct {
	ID             string    `json:"id"`
	ClientID       string    `json:"client_id"`
	Title          string    `json:"title"`
	JobDescription string    `json:"job_description,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SchedulingSession scopes one panel-selection-through-scheduling flow.
// Distinct from an authentication session.
type SchedulingSession struct {
	ID          string            `json:"session_id"`
	UserID      string            `json:"user_id"`
	CandidateID string            `json:"candidate_id,omitempty"`
	CampaignID  string            `json:"campaign_id,omitempty"`
	ClientID    string            `json:"client_id,omitempty"`
	Panel       []PanelMember     `json:"panel"`
	Details     *InterviewDetails `json:"details,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type MailDraft struct {
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	To      []string `json:"to"`
	Cc      []string `json:"cc,omitempty"`
}

type PanelistResponse struct {
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	Response    RSVP       `json:"response"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

type EventStatus struct {
	SessionID         string             `json:"session_id"`
	CandidateResponse RSVP               `json:"candidate_response"`
	Panelists         []PanelistResponse `json:"panelists"`
	Slot              *TimeSlot          `json:"slot,omitempty"`
}
