package schedule

import (
	"regexp"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"hiring-management-api/internal/model"
)

// RoundList owns the ordered rounds for one (candidate, campaign, client)
// triple. Round numbers always form a dense 1..N sequence.
type RoundList struct {
	CandidateID string
	CampaignID  string
	ClientID    string
	Rounds      []model.InterviewRound
}

func NewRoundList(candidateID, campaignID, clientID string, rounds []model.InterviewRound) *RoundList {
	l := &RoundList{
		CandidateID: candidateID,
		CampaignID:  campaignID,
		ClientID:    clientID,
		Rounds:      rounds,
	}
	l.renumber()
	return l
}

// Add appends a new draft round. The ID is an opaque stable identifier;
// renaming a round later never changes it.
func (l *RoundList) Add(name string) *model.InterviewRound {
	now := time.Now()
	l.Rounds = append(l.Rounds, model.InterviewRound{
		ID:          shortuuid.New(),
		Name:        name,
		Status:      model.RoundDraft,
		Panel:       []model.PanelMember{},
		CandidateID: l.CandidateID,
		CampaignID:  l.CampaignID,
		ClientID:    l.ClientID,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	l.renumber()
	return &l.Rounds[len(l.Rounds)-1]
}

// Remove deletes a round and closes the numbering gap. Round 1 is
// permanent: removing it is a no-op and the list is left untouched.
func (l *RoundList) Remove(id string) bool {
	for i := range l.Rounds {
		if l.Rounds[i].ID != id {
			continue
		}
		if l.Rounds[i].RoundNumber == 1 {
			return false
		}
		l.Rounds = append(l.Rounds[:i], l.Rounds[i+1:]...)
		l.renumber()
		return true
	}
	return false
}

// Rename updates the display name only; the round keeps its ID so state
// keyed by it survives the rename.
func (l *RoundList) Rename(id, name string) bool {
	r := l.Get(id)
	if r == nil {
		return false
	}
	r.Name = name
	r.UpdatedAt = time.Now()
	return true
}

func (l *RoundList) Get(id string) *model.InterviewRound {
	for i := range l.Rounds {
		if l.Rounds[i].ID == id {
			return &l.Rounds[i]
		}
	}
	return nil
}

// SchemaNames is the user-editable ordered list of round names.
func (l *RoundList) SchemaNames() []string {
	names := make([]string, len(l.Rounds))
	for i := range l.Rounds {
		names[i] = l.Rounds[i].Name
	}
	return names
}

func (l *RoundList) renumber() {
	for i := range l.Rounds {
		l.Rounds[i].RoundNumber = i + 1
	}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a round name. Computed on demand,
// never used as a storage key.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
