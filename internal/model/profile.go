package model

import "strings"

// Profile is the editable, multi-section part of a User.
//
// Every section is an ordered slice kept in the order the entries were
// entered. After NormalizeProfile the slices are non-nil, so the persisted
// document always carries [] rather than null.
type Profile struct {
	About          string          `json:"about"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Social         []SocialLink    `json:"social"`
}

// Experience is a job entry. Title and Company are required.
type Experience struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// Education is a degree entry. Degree and Institution are required.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Project entry. Only Name is required.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Certification entry. Name and Issuer are required.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

// SocialLink entry. Platform and URL are required.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// EmptyProfile returns a profile with every section present and empty.
func EmptyProfile() Profile {
	return Profile{
		Experience:     []Experience{},
		Education:      []Education{},
		Projects:       []Project{},
		Certifications: []Certification{},
		Social:         []SocialLink{},
	}
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	return Profile{
		About:          p.About,
		Experience:     append([]Experience{}, p.Experience...),
		Education:      append([]Education{}, p.Education...),
		Projects:       append([]Project{}, p.Projects...),
		Certifications: append([]Certification{}, p.Certifications...),
		Social:         append([]SocialLink{}, p.Social...),
	}
}

// IsEmpty reports whether the profile has no about text and no entries.
func (p Profile) IsEmpty() bool {
	return p.About == "" &&
		len(p.Experience) == 0 &&
		len(p.Education) == 0 &&
		len(p.Projects) == 0 &&
		len(p.Certifications) == 0 &&
		len(p.Social) == 0
}

// NormalizeProfile turns form-shaped input into a storable profile.
//
// All text is trimmed. An entry survives only if its required fields are
// non-empty; incomplete entries are dropped, not rejected, and the
// remaining entries keep their input order.
func NormalizeProfile(in Profile) Profile {
	out := EmptyProfile()
	out.About = strings.TrimSpace(in.About)

	for _, e := range in.Experience {
		e = Experience{Title: trim(e.Title), Company: trim(e.Company), Duration: trim(e.Duration)}
		if e.Title != "" && e.Company != "" {
			out.Experience = append(out.Experience, e)
		}
	}
	for _, e := range in.Education {
		e = Education{Degree: trim(e.Degree), Institution: trim(e.Institution), Year: trim(e.Year)}
		if e.Degree != "" && e.Institution != "" {
			out.Education = append(out.Education, e)
		}
	}
	for _, p := range in.Projects {
		p = Project{Name: trim(p.Name), Description: trim(p.Description)}
		if p.Name != "" {
			out.Projects = append(out.Projects, p)
		}
	}
	for _, c := range in.Certifications {
		c = Certification{Name: trim(c.Name), Issuer: trim(c.Issuer), Year: trim(c.Year)}
		if c.Name != "" && c.Issuer != "" {
			out.Certifications = append(out.Certifications, c)
		}
	}
	for _, s := range in.Social {
		s = SocialLink{Platform: trim(s.Platform), URL: trim(s.URL)}
		if s.Platform != "" && s.URL != "" {
			out.Social = append(out.Social, s)
		}
	}

	return out
}

func trim(s string) string { return strings.TrimSpace(s) }
