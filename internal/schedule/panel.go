package schedule

import (
	"errors"
	"strings"

	"hiring-management-api/internal/model"
)

var ErrEmptyPanel = errors.New("select at least one panel member")

// roleJobTitles maps the predefined round role labels onto the directory
// job titles that auto-select for them.
var roleJobTitles = map[string][]string{
	"Technical Interviewer": {"Software Engineer", "Senior Software Engineer", "Staff Engineer", "Tech Lead"},
	"Hiring Manager":        {"Engineering Manager", "Director of Engineering"},
	"HR Round":              {"HR Executive", "Talent Acquisition Specialist", "Recruiter"},
}

func Roles() []string {
	return []string{"Technical Interviewer", "Hiring Manager", "HR Round"}
}

func ToPanelMember(u model.User) model.PanelMember {
	return model.PanelMember{
		UserID:      u.ID,
		DisplayName: u.Name,
		Email:       u.Email,
		Role:        u.JobTitle,
		Avatar:      u.Avatar,
	}
}

// MembersForRole auto-selects directory users whose job title belongs to
// the role label. Unknown roles select nobody.
func MembersForRole(users []model.User, role string) []model.PanelMember {
	titles := roleJobTitles[role]
	var out []model.PanelMember
	for _, u := range users {
		for _, t := range titles {
			if strings.EqualFold(u.JobTitle, t) {
				out = append(out, ToPanelMember(u))
				break
			}
		}
	}
	return out
}

// SearchUsers filters the directory for the manual checklist. Matches name
// or email, case-insensitive; an empty query returns everyone.
func SearchUsers(users []model.User, query string) []model.User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return users
	}
	var out []model.User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), query) ||
			strings.Contains(strings.ToLower(u.Email), query) {
			out = append(out, u)
		}
	}
	return out
}

// ValidatePanel rejects an empty selection before any session is created.
func ValidatePanel(members []model.PanelMember) error {
	if len(members) == 0 {
		return ErrEmptyPanel
	}
	return nil
}
