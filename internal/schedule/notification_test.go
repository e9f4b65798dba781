package schedule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-management-api/internal/model"
)

func TestRecipientAddDelimited(t *testing.T) {
	l := NewRecipientList()
	added, remaining := l.Add("a@x.com, b@y.com,")
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, added)
	assert.Empty(t, remaining)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, l.Addresses())
}

func TestRecipientTrailingTokenStaysPending(t *testing.T) {
	l := NewRecipientList()
	added, remaining := l.Add("a@x.com, b@y")
	assert.Equal(t, []string{"a@x.com"}, added)
	assert.Equal(t, "b@y", remaining)
	assert.Equal(t, []string{"a@x.com"}, l.Addresses())
}

func TestRecipientInvalidTokenDropped(t *testing.T) {
	l := NewRecipientList("a@x.com")
	added, _ := l.Add("not-an-email,")
	assert.Empty(t, added)
	assert.Equal(t, []string{"a@x.com"}, l.Addresses())
}

func TestRecipientNewlineDelimiters(t *testing.T) {
	l := NewRecipientList()
	added, remaining := l.Add("a@x.com\nb@y.com\r\nc@z.com,")
	assert.Equal(t, []string{"a@x.com", "b@y.com", "c@z.com"}, added)
	assert.Empty(t, remaining)
}

func TestRecipientDedupCaseInsensitive(t *testing.T) {
	l := NewRecipientList("a@x.com")
	added, _ := l.Add("A@X.com,")
	assert.Empty(t, added)
	assert.Len(t, l.Addresses(), 1)
}

func TestRecipientRemove(t *testing.T) {
	l := NewRecipientList("a@x.com", "b@y.com")
	l.Remove("a@x.com")
	assert.Equal(t, []string{"b@y.com"}, l.Addresses())
	l.Remove("missing@x.com")
	assert.Len(t, l.Addresses(), 1)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@x.com"))
	assert.True(t, ValidEmail("first.last+tag@sub.domain.io"))
	assert.False(t, ValidEmail("a@x"))
	assert.False(t, ValidEmail("a x@y.com"))
	assert.False(t, ValidEmail("@x.com"))
	assert.False(t, ValidEmail(""))
}

func TestFormatSlotTimestamp(t *testing.T) {
	slot := model.TimeSlot{Date: "2026-03-02", Start: "09:30", End: "10:00"}

	got, err := FormatSlotTimestamp(slot, slot.Start)
	require.NoError(t, err)
	// wall-clock time with a literal Z, no timezone conversion
	assert.Equal(t, "2026-03-02T09:30:00Z", got)

	got, err = FormatSlotTimestamp(slot, slot.End)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02T10:00:00Z", got)
}

func TestFormatSlotTimestampMalformed(t *testing.T) {
	_, err := FormatSlotTimestamp(model.TimeSlot{Date: "bad", Start: "09:30"}, "09:30")
	assert.Error(t, err)
}

func TestBuildDraftSingle(t *testing.T) {
	d := BuildDraft(
		model.Candidate{Name: "Ada", Email: "ada@x.com"},
		model.InterviewDetails{Title: "Technical Round", Duration: 60, MeetingType: model.MeetingInPerson, Location: "HQ, Room 3"},
		[]model.TimeSlot{{Date: "2026-03-02", Start: "10:00", End: "11:00"}},
		SelectSingle,
	)
	assert.Equal(t, []string{"ada@x.com"}, d.To)
	assert.Equal(t, "Interview Scheduled: Technical Round", d.Subject)
	assert.Contains(t, d.Body, "Dear Ada,")
	assert.Contains(t, d.Body, "2026-03-02")
	assert.Contains(t, d.Body, "HQ, Room 3")
}

func TestBuildDraftMultipleListsOptions(t *testing.T) {
	d := BuildDraft(
		model.Candidate{Email: "bad-email"},
		model.InterviewDetails{Title: "Screening", Duration: 30, MeetingType: model.MeetingVirtual},
		[]model.TimeSlot{
			{Date: "2026-03-02", Start: "10:00", End: "10:30"},
			{Date: "2026-03-03", Start: "15:00", End: "15:30"},
		},
		SelectMultiple,
	)
	// invalid candidate email never lands in To
	assert.Empty(t, d.To)
	assert.Equal(t, "Interview Availability: Screening", d.Subject)
	assert.Contains(t, d.Body, "Dear Candidate,")
	assert.Equal(t, 2, strings.Count(d.Body, "2026-03-0"))
	assert.Contains(t, d.Body, "virtual meeting")
}
