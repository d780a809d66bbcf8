package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/wikistore/internal/errors"
	"git.home.luguber.info/inful/wikistore/internal/page"
	"git.home.luguber.info/inful/wikistore/internal/pagepath"
	"git.home.luguber.info/inful/wikistore/internal/pagetype"
)

// pageFromFlags builds the Page for a command, loading the existing record
// when one is present so edits do not clobber record fields.
func pageFromFlags(env *environment, flags PageFlags) (*page.Page, error) {
	id := pagepath.Identity{
		Department:   flags.Department,
		CourseNumber: flags.Course,
		Term:         flags.Term,
		Year:         flags.Year,
		Type:         pagetype.Type(flags.Type),
		Slug:         flags.Slug,
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	rec, err := env.records.GetPage(context.Background(), id)
	if err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			return &page.Page{Identity: id}, nil
		}
		return nil, err
	}
	// A different type flag would resolve a different path segment than the
	// page was saved under; refuse rather than silently splitting the page.
	if rec.Identity.Type != id.Type {
		return nil, errors.ValidationFailed("type",
			fmt.Sprintf("page is stored as %s, not %s", rec.Identity.Type, id.Type))
	}
	p := page.FromRecord(rec)
	p.Identity = id // command-line identity wins over stored casing
	return p, nil
}

func readBody(file string) (string, error) {
	if file != "" {
		// #nosec G304 - file comes from the CLI flag
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func runShow(env *environment) error {
	p, err := pageFromFlags(env, CLI.Show.PageFlags)
	if err != nil {
		return err
	}
	if CLI.Show.Anchor != "" {
		section, start, end, err := env.service.LoadSectionContent(p, CLI.Show.Anchor)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "lines [%d, %d)\n", start, end)
		fmt.Println(section)
		return nil
	}
	content, err := env.service.LoadContent(p)
	if err != nil {
		return err
	}
	fmt.Print(content)
	return nil
}

func runSave(env *environment) error {
	p, err := pageFromFlags(env, CLI.Save.PageFlags)
	if err != nil {
		return err
	}
	body, err := readBody(CLI.Save.File)
	if err != nil {
		return err
	}
	commit, err := env.service.Save(context.Background(), p, body, CLI.Save.Message, CLI.Save.Author)
	if err != nil {
		return err
	}
	fmt.Println(commit)
	return nil
}

func runSaveSection(env *environment) error {
	p, err := pageFromFlags(env, CLI.SaveSection.PageFlags)
	if err != nil {
		return err
	}
	body, err := readBody(CLI.SaveSection.File)
	if err != nil {
		return err
	}
	commit, err := env.service.SaveSection(context.Background(), p, body,
		CLI.SaveSection.Message, CLI.SaveSection.Author,
		CLI.SaveSection.Start, CLI.SaveSection.End)
	if err != nil {
		return err
	}
	fmt.Println(commit)
	return nil
}

func runLatest(env *environment) error {
	p, err := pageFromFlags(env, CLI.Latest.PageFlags)
	if err != nil {
		return err
	}
	hash, err := env.service.LatestCommitHash(p)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func runHistory(env *environment) error {
	p, err := pageFromFlags(env, CLI.History.PageFlags)
	if err != nil {
		return err
	}
	log, err := env.service.History(p, CLI.History.Limit)
	if err != nil {
		return err
	}
	for _, c := range log {
		fmt.Printf("%s  %s  %s  %s\n", c.Hash[:8], c.When.Format("2006-01-02 15:04"), c.Author, firstLine(c.Message))
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			return s[:i]
		}
	}
	return s
}
