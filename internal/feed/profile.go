package feed

import (
	"strings"
	"unicode/utf8"

	"github.com/sakif/campus-connect/internal/model"
)

// Placeholders shown for empty profile sections.
const (
	PlaceholderAbout          = "No information provided yet."
	PlaceholderExperience     = "No experience added yet."
	PlaceholderEducation      = "No education information added yet."
	PlaceholderProjects       = "No projects added yet."
	PlaceholderCertifications = "No certifications added yet."
	PlaceholderSocial         = "No social links added yet."
	PlaceholderSavedPosts     = "No saved posts yet."
)

// Section is one rendered profile section. Exactly one of Lines and
// Placeholder is populated.
type Section struct {
	Lines       []string `json:"lines"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Empty reports whether the section is showing its placeholder.
func (s Section) Empty() bool { return len(s.Lines) == 0 }

// ProfileView is a user's profile with display defaults applied.
type ProfileView struct {
	UserID         string     `json:"userId"`
	Username       string     `json:"username"`
	College        string     `json:"college"`
	Email          string     `json:"email"`
	Initial        string     `json:"initial"`
	About          string     `json:"about"`
	Experience     Section    `json:"experience"`
	Education      Section    `json:"education"`
	Projects       Section    `json:"projects"`
	Certifications Section    `json:"certifications"`
	Social         Section    `json:"social"`
	SavedPosts     []PostView `json:"savedPosts"`
	SavedMessage   string     `json:"savedMessage,omitempty"`
	FollowingCount int        `json:"followingCount"`
}

// BuildProfileView renders u's profile. posts is the full post collection,
// used to resolve u's saved posts.
func BuildProfileView(u *model.User, posts []model.Post) ProfileView {
	p := u.Profile

	v := ProfileView{
		UserID:         u.ID,
		Username:       u.Username,
		College:        u.College,
		Email:          u.Email,
		Initial:        initial(u.Username),
		About:          orDefault(p.About, PlaceholderAbout),
		Experience:     section(p.Experience, PlaceholderExperience, experienceLine),
		Education:      section(p.Education, PlaceholderEducation, educationLine),
		Projects:       section(p.Projects, PlaceholderProjects, projectLine),
		Certifications: section(p.Certifications, PlaceholderCertifications, certificationLine),
		Social:         section(p.Social, PlaceholderSocial, socialLine),
		SavedPosts:     AnnotateAll(SavedPosts(u, posts), u),
		FollowingCount: len(u.Following),
	}
	if len(v.SavedPosts) == 0 {
		v.SavedMessage = PlaceholderSavedPosts
	}
	return v
}

func section[T any](entries []T, placeholder string, line func(T) string) Section {
	if len(entries) == 0 {
		return Section{Lines: []string{}, Placeholder: placeholder}
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, line(e))
	}
	return Section{Lines: lines}
}

func experienceLine(e model.Experience) string {
	return withSuffix(e.Title+" at "+e.Company, e.Duration)
}

func educationLine(e model.Education) string {
	return withSuffix(e.Degree+", "+e.Institution, e.Year)
}

func projectLine(p model.Project) string {
	if p.Description == "" {
		return p.Name
	}
	return p.Name + ": " + p.Description
}

func certificationLine(c model.Certification) string {
	return withSuffix(c.Name+" ("+c.Issuer+")", c.Year)
}

func socialLine(s model.SocialLink) string {
	return s.Platform + ": " + s.URL
}

// withSuffix appends " - extra" when extra is set.
func withSuffix(s, extra string) string {
	if extra == "" {
		return s
	}
	return s + " - " + extra
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// initial is the upper-cased first letter of name, used for the avatar.
func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}
