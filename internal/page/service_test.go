package page

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/wikistore/internal/errors"
	"git.home.luguber.info/inful/wikistore/internal/pagetype"
	"git.home.luguber.info/inful/wikistore/internal/recordstore"
	"git.home.luguber.info/inful/wikistore/internal/storage"
)

func testService(t *testing.T) (*Service, recordstore.Store) {
	t.Helper()
	records, err := recordstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = records.Close() })

	content := storage.NewContentStore(t.TempDir())
	return NewService(content, records, Options{}), records
}

func TestSaveFullPipeline(t *testing.T) {
	svc, records := testService(t)
	ctx := context.Background()
	p := testPage()

	commit, err := svc.Save(ctx, p, "# Intro\r\nhello\r\n", "initial notes", "alice")
	require.NoError(t, err)
	require.Len(t, commit, 40)

	// File on disk matches what was saved.
	got, err := svc.LoadContent(p)
	require.NoError(t, err)
	require.Equal(t, "# Intro\r\nhello\r\n", got)

	// Rendered cache reflects the body and is persisted on the record.
	require.Contains(t, p.Rendered, "<h1>Intro</h1>")
	rec, err := records.GetPage(ctx, p.Identity)
	require.NoError(t, err)
	require.Equal(t, p.Rendered, rec.Rendered)
	require.NotEmpty(t, rec.Fingerprint)

	// Commit is retrievable as the repository head.
	latest, err := svc.LatestCommitHash(p)
	require.NoError(t, err)
	require.Equal(t, commit, latest)
}

func TestSaveAppendsSingleTerminator(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	p := testPage()

	_, err := svc.Save(ctx, p, "no terminator", "msg", "alice")
	require.NoError(t, err)
	got, err := svc.LoadContent(p)
	require.NoError(t, err)
	require.Equal(t, "no terminator\r\n", got)

	// Re-saving the already-terminated body adds nothing.
	_, err = svc.Save(ctx, p, got, "msg", "alice")
	require.NoError(t, err)
	again, err := svc.LoadContent(p)
	require.NoError(t, err)
	require.Equal(t, got, again)
	require.Equal(t, 1, strings.Count(again, "\r\n"))
}

func TestSequentialSavesProduceDistinctCommits(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	p := testPage()

	first, err := svc.Save(ctx, p, "v1\r\n", "first", "alice")
	require.NoError(t, err)
	second, err := svc.Save(ctx, p, "v2\r\n", "second", "bob")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	latest, err := svc.LatestCommitHash(p)
	require.NoError(t, err)
	require.Equal(t, second, latest)

	history, err := svc.History(p, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, second, history[0].Hash)
	require.Equal(t, first, history[1].Hash)
}

func TestSaveSectionSplice(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	p := testPage()

	_, err := svc.Save(ctx, p, "# Intro\r\nhello\r\n", "initial", "alice")
	require.NoError(t, err)

	before, err := svc.LatestCommitHash(p)
	require.NoError(t, err)

	_, err = svc.SaveSection(ctx, p, "world\r\n", "edit intro", "alice", 1, 2)
	require.NoError(t, err)

	got, err := svc.LoadContent(p)
	require.NoError(t, err)
	require.Equal(t, "# Intro\r\nworld\r\n", got)

	after, err := svc.LatestCommitHash(p)
	require.NoError(t, err)
	require.NotEqual(t, before, after)
	require.Contains(t, p.Rendered, "world")
}

func TestSaveSectionRoundTripThroughLocator(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	p := testPage()

	body := "# Intro\r\nhello\r\n# Outro\r\nbye\r\n"
	_, err := svc.Save(ctx, p, body, "initial", "alice")
	require.NoError(t, err)

	section, start, end, err := svc.LoadSectionContent(p, "Intro")
	require.NoError(t, err)
	require.Equal(t, "hello", section)

	_, err = svc.SaveSection(ctx, p, "brand new text\r\n", "edit", "alice", start, end)
	require.NoError(t, err)

	section, _, _, err = svc.LoadSectionContent(p, "Intro")
	require.NoError(t, err)
	require.Equal(t, "brand new text", section)

	// The untouched section survives the splice.
	section, _, _, err = svc.LoadSectionContent(p, "Outro")
	require.NoError(t, err)
	require.Equal(t, "bye", section)
}

func TestSaveSectionRangeBeyondDocumentReplacesWhole(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	p := testPage()

	_, err := svc.Save(ctx, p, "# Intro\r\nhello\r\n", "initial", "alice")
	require.NoError(t, err)

	// end is past the two-line document: the legacy fallback replaces the
	// whole body verbatim instead of splicing.
	_, err = svc.SaveSection(ctx, p, "replacement\r\n", "edit", "alice", 1, 99)
	require.NoError(t, err)

	got, err := svc.LoadContent(p)
	require.NoError(t, err)
	require.Equal(t, "replacement\r\n", got)
}

func TestSaveSectionZeroEndIsFullSave(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	p := testPage()

	_, err := svc.SaveSection(ctx, p, "fresh body\r\n", "create", "alice", 0, 0)
	require.NoError(t, err)

	got, err := svc.LoadContent(p)
	require.NoError(t, err)
	require.Equal(t, "fresh body\r\n", got)
}

func TestSaveSectionOnMissingPageFails(t *testing.T) {
	svc, _ := testService(t)
	p := testPage()

	_, err := svc.SaveSection(context.Background(), p, "text\r\n", "edit", "alice", 1, 2)
	require.Error(t, err)
	require.True(t, errors.IsCode(err, errors.CodeSave))
}

func TestLoadSectionContentMissingAnchor(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	p := testPage()

	_, err := svc.Save(ctx, p, "# Intro\r\nhello\r\n", "initial", "alice")
	require.NoError(t, err)

	_, _, _, err = svc.LoadSectionContent(p, "conclusion")
	require.Error(t, err)
	require.True(t, errors.IsCode(err, errors.CodeSectionNotFound))
}

func TestLatestCommitHashWithoutRepository(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.LatestCommitHash(testPage())
	require.Error(t, err)
	require.True(t, errors.IsCode(err, errors.CodeNoHistory))
}

func TestEditPersistsRecordOnly(t *testing.T) {
	svc, records := testService(t)
	ctx := context.Background()
	p := testPage()

	_, err := svc.Save(ctx, p, "body\r\n", "initial", "alice")
	require.NoError(t, err)
	before, err := svc.LatestCommitHash(p)
	require.NoError(t, err)

	require.NoError(t, svc.Edit(ctx, p, map[string]string{"subject": "Derivatives"}))

	rec, err := records.GetPage(ctx, p.Identity)
	require.NoError(t, err)
	require.Equal(t, "Derivatives", rec.Subject)

	// No new commit: edit is metadata only.
	after, err := svc.LatestCommitHash(p)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestCacheValidTracksBody(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	p := testPage()

	_, err := svc.Save(ctx, p, "body\r\n", "initial", "alice")
	require.NoError(t, err)

	require.True(t, svc.CacheValid(p, "body\r\n"))
	require.False(t, svc.CacheValid(p, "different body\r\n"))
}

func TestSaveExternalPage(t *testing.T) {
	svc, records := testService(t)
	ctx := context.Background()

	err := svc.SaveExternal(ctx, &ExternalPage{
		Department:   "math",
		CourseNumber: 141,
		Type:         pagetype.External,
		Link:         "https://example.invalid/exams",
		Title:        "Exam archive",
	})
	require.NoError(t, err)

	got, err := records.ListExternal(ctx, "math", 141)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Exam archive", got[0].Title)
}

func TestSaveCRLFAndLFBodiesSplice(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	p := testPage()

	// LF input: the splice path reads whatever is on disk and reassembles
	// with the canonical terminator.
	_, err := svc.Save(ctx, p, "# Intro\nhello\n", "initial", "alice")
	require.NoError(t, err)

	_, err = svc.SaveSection(ctx, p, "world", "edit", "alice", 1, 2)
	require.NoError(t, err)

	got, err := svc.LoadContent(p)
	require.NoError(t, err)
	require.Equal(t, "# Intro\r\nworld\r\n", got)
}
