package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"hiring-management-api/internal/model"
)

var emailRe = regexp.MustCompile(`^[^\s@,]+@[^\s@,]+\.[^\s@,]+$`)

func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// RecipientList models a To/Cc field fed by delimited free-text entry.
type RecipientList struct {
	addrs []string
}

func NewRecipientList(addrs ...string) *RecipientList {
	l := &RecipientList{}
	for _, a := range addrs {
		l.append(a)
	}
	return l
}

// Add commits every comma/newline-delimited token in input. Valid
// addresses are appended in order; invalid tokens are dropped and leave
// the list untouched. A trailing token with no delimiter stays pending
// and is returned as remaining input.
func (l *RecipientList) Add(input string) (added []string, remaining string) {
	norm := strings.NewReplacer("\r\n", ",", "\n", ",").Replace(input)
	endsDelimited := strings.HasSuffix(norm, ",")
	tokens := strings.Split(norm, ",")

	if !endsDelimited && len(tokens) > 0 {
		remaining = strings.TrimSpace(tokens[len(tokens)-1])
		tokens = tokens[:len(tokens)-1]
	}
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" || !ValidEmail(tok) {
			continue
		}
		if l.append(tok) {
			added = append(added, tok)
		}
	}
	return added, remaining
}

func (l *RecipientList) Remove(addr string) {
	for i, a := range l.addrs {
		if a == addr {
			l.addrs = append(l.addrs[:i], l.addrs[i+1:]...)
			return
		}
	}
}

func (l *RecipientList) Addresses() []string {
	out := make([]string, len(l.addrs))
	copy(out, l.addrs)
	return out
}

func (l *RecipientList) append(addr string) bool {
	if !ValidEmail(addr) {
		return false
	}
	for _, a := range l.addrs {
		if strings.EqualFold(a, addr) {
			return false
		}
	}
	l.addrs = append(l.addrs, addr)
	return true
}

// SlotTimestampLayout is what the upstream schedule-event endpoint expects.
// The trailing Z is literal: the upstream contract takes wall-clock time in
// the round's preferred timezone with no conversion applied.
const SlotTimestampLayout = "2006-01-02T15:04:05"

func FormatSlotTimestamp(slot model.TimeSlot, clock string) (string, error) {
	t, err := time.Parse("2006-01-02 15:04", slot.Date+" "+clock)
	if err != nil {
		return "", fmt.Errorf("malformed slot time %q %q: %w", slot.Date, clock, err)
	}
	return t.Format(SlotTimestampLayout) + "Z", nil
}

// BuildDraft synthesizes the default candidate email. Direct invites name
// the confirmed slot; candidate-choice mails enumerate the options.
func BuildDraft(candidate model.Candidate, details model.InterviewDetails, slots []model.TimeSlot, mode SelectionMode) model.MailDraft {
	d := model.MailDraft{To: []string{}}
	if ValidEmail(candidate.Email) {
		d.To = append(d.To, candidate.Email)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", orElse(candidate.Name, "Candidate"))

	where := "a virtual meeting (link to follow)"
	if details.MeetingType == model.MeetingInPerson && details.Location != "" {
		where = details.Location
	}

	if mode == SelectSingle {
		d.Subject = fmt.Sprintf("Interview Scheduled: %s", details.Title)
		fmt.Fprintf(&b, "Your interview \"%s\" has been scheduled.\n\n", details.Title)
		if len(slots) > 0 {
			fmt.Fprintf(&b, "Date: %s\nTime: %s - %s\n", slots[0].Date, slots[0].Start, slots[0].End)
		}
		fmt.Fprintf(&b, "Duration: %d minutes\nLocation: %s\n", details.Duration, where)
	} else {
		d.Subject = fmt.Sprintf("Interview Availability: %s", details.Title)
		fmt.Fprintf(&b, "We would like to schedule your interview \"%s\".\n", details.Title)
		fmt.Fprintf(&b, "Please pick one of the following slots:\n\n")
		for i, s := range slots {
			fmt.Fprintf(&b, "  %d. %s, %s - %s\n", i+1, s.Date, s.Start, s.End)
		}
		fmt.Fprintf(&b, "\nDuration: %d minutes\nLocation: %s\n", details.Duration, where)
	}

	b.WriteString("\nBest regards,\nThe Hiring Team\n")
	d.Body = b.String()
	return d
}

func orElse(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
