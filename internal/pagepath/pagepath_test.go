package pagepath

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/wikistore/internal/errors"
	"git.home.luguber.info/inful/wikistore/internal/pagetype"
)

func testIdentity() Identity {
	return Identity{
		Department:   "MATH",
		CourseNumber: 141,
		Term:         "Winter",
		Year:         2012,
		Type:         pagetype.LectureNotes,
		Slug:         "integration-basics",
	}
}

func TestContentFile(t *testing.T) {
	p, err := ContentFile(testIdentity())
	require.NoError(t, err)
	require.Equal(t, "math/141/lecture-notes/winter-2012/integration-basics/content.md", p)
}

func TestRepoRootSharedAcrossPages(t *testing.T) {
	a := testIdentity()
	b := testIdentity()
	b.Slug = "derivatives"
	b.Type = pagetype.Summary
	require.Equal(t, RepoRoot(a), RepoRoot(b))
	require.Equal(t, "math/141", RepoRoot(a))
}

func TestPathIsContentIndependent(t *testing.T) {
	// Same identity must always resolve to the same path.
	p1, err := PageDir(testIdentity())
	require.NoError(t, err)
	p2, err := PageDir(testIdentity())
	require.NoError(t, err)
	require.Equal(t, p1, p2)
}

func TestPathChangesWithIdentity(t *testing.T) {
	base, err := PageDir(testIdentity())
	require.NoError(t, err)

	changed := testIdentity()
	changed.Slug = "other"
	other, err := PageDir(changed)
	require.NoError(t, err)
	require.NotEqual(t, base, other)
}

func TestURLPath(t *testing.T) {
	u, err := URLPath(testIdentity())
	require.NoError(t, err)
	require.Equal(t, "/math/141/lecture-notes/winter/2012/integration-basics", u)
}

func TestValidateRejectsBadIdentity(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Identity)
	}{
		{"empty department", func(id *Identity) { id.Department = "" }},
		{"zero course number", func(id *Identity) { id.CourseNumber = 0 }},
		{"empty term", func(id *Identity) { id.Term = "" }},
		{"zero year", func(id *Identity) { id.Year = 0 }},
		{"empty slug", func(id *Identity) { id.Slug = "" }},
		{"slug with separator", func(id *Identity) { id.Slug = "a/b" }},
		{"unknown type", func(id *Identity) { id.Type = "frontpage" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := testIdentity()
			tc.mutate(&id)
			err := id.Validate()
			require.Error(t, err)
			require.True(t, errors.IsCategory(err, errors.CategoryValidation))
		})
	}
}
