package feed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/campus-connect/internal/feed"
	"github.com/sakif/campus-connect/internal/model"
)

func TestBuildProfileView_Empty(t *testing.T) {
	u := user("u1", "ana", "MIT")

	v := feed.BuildProfileView(u, nil)

	assert.Equal(t, "A", v.Initial)
	assert.Equal(t, feed.PlaceholderAbout, v.About)

	sections := []struct {
		name string
		got  feed.Section
		want string
	}{
		{"experience", v.Experience, "No experience added yet."},
		{"education", v.Education, "No education information added yet."},
		{"projects", v.Projects, "No projects added yet."},
		{"certifications", v.Certifications, "No certifications added yet."},
		{"social", v.Social, "No social links added yet."},
	}
	for _, s := range sections {
		assert.True(t, s.got.Empty(), s.name)
		assert.Equal(t, s.want, s.got.Placeholder, s.name)
	}

	assert.Empty(t, v.SavedPosts)
	assert.Equal(t, "No saved posts yet.", v.SavedMessage)
}

func TestBuildProfileView_Filled(t *testing.T) {
	u := user("u1", "ana", "MIT", "u2")
	u.Email = "ana@mit.edu"
	u.SavedPosts = []string{"p1"}
	u.Profile = model.Profile{
		About:          "Hello",
		Experience:     []model.Experience{{Title: "Intern", Company: "Acme", Duration: "2024"}, {Title: "TA", Company: "MIT"}},
		Education:      []model.Education{{Degree: "BSc", Institution: "MIT", Year: "2026"}},
		Projects:       []model.Project{{Name: "compiler", Description: "toy"}, {Name: "blog"}},
		Certifications: []model.Certification{{Name: "CKA", Issuer: "CNCF"}},
		Social:         []model.SocialLink{{Platform: "GitHub", URL: "https://github.com/ana"}},
	}

	v := feed.BuildProfileView(u, []model.Post{post("p1", "u2", "MIT")})

	assert.Equal(t, "Hello", v.About)
	assert.Equal(t, []string{"Intern at Acme - 2024", "TA at MIT"}, v.Experience.Lines)
	assert.Empty(t, v.Experience.Placeholder)
	assert.Equal(t, []string{"BSc, MIT - 2026"}, v.Education.Lines)
	assert.Equal(t, []string{"compiler: toy", "blog"}, v.Projects.Lines)
	assert.Equal(t, []string{"CKA (CNCF)"}, v.Certifications.Lines)
	assert.Equal(t, []string{"GitHub: https://github.com/ana"}, v.Social.Lines)
	assert.Equal(t, 1, v.FollowingCount)

	require.Len(t, v.SavedPosts, 1)
	assert.True(t, v.SavedPosts[0].Saved)
	assert.Empty(t, v.SavedMessage)
}

func TestBuildProfileView_Initial(t *testing.T) {
	tests := []struct{ name, want string }{
		{"bob", "B"},
		{"  zoe", "Z"},
		{"élodie", "É"},
		{"", "?"},
	}
	for _, tt := range tests {
		v := feed.BuildProfileView(user("u", tt.name, "MIT"), nil)
		assert.Equal(t, tt.want, v.Initial, "name=%q", tt.name)
	}
}
