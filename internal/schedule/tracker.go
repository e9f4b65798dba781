package schedule

import (
	"errors"
	"strings"

	"hiring-management-api/internal/model"
)

var (
	ErrPanelistNotFound = errors.New("panelist not on this panel")
	ErrAlreadyOnPanel   = errors.New("replacement is already on the panel")
	ErrNothingToReplace = errors.New("replacement member required")
)

// CoerceRSVP maps the upstream's free-text response values onto the closed
// RSVP set. Anything unrecognized is treated as pending.
func CoerceRSVP(raw string) model.RSVP {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "accepted", "yes":
		return model.RSVPAccepted
	case "declined", "no":
		return model.RSVPDeclined
	case "none", "":
		return model.RSVPNoResponse
	case "tentative":
		return model.RSVPPending
	default:
		return model.RSVPPending
	}
}

// PanelReplacement carries the before/after attendee email sets the
// upstream update-event endpoint wants, plus the new local panel.
type PanelReplacement struct {
	Before []string
	After  []string
	Panel  []model.PanelMember
}

// ReplacePanelist swaps a declined panelist (by email) for a replacement.
func ReplacePanelist(panel []model.PanelMember, removeEmail string, replacement model.PanelMember) (*PanelReplacement, error) {
	if replacement.Email == "" {
		return nil, ErrNothingToReplace
	}

	idx := -1
	before := make([]string, 0, len(panel))
	for i, m := range panel {
		before = append(before, m.Email)
		if strings.EqualFold(m.Email, removeEmail) {
			idx = i
		}
		if strings.EqualFold(m.Email, replacement.Email) {
			return nil, ErrAlreadyOnPanel
		}
	}
	if idx < 0 {
		return nil, ErrPanelistNotFound
	}

	updated := make([]model.PanelMember, len(panel))
	copy(updated, panel)
	updated[idx] = replacement

	after := make([]string, 0, len(updated))
	for _, m := range updated {
		after = append(after, m.Email)
	}
	return &PanelReplacement{Before: before, After: after, Panel: updated}, nil
}
