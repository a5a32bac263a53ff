// Package severity maps classifier labels to named severity levels with
// localized descriptions.
package severity

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/hejijunhao/heartcheck/internal/model"
)

// Level is one row of the severity table.
type Level struct {
	Label        int
	Name         string
	Descriptions map[language.Tag]string
}

// Table is the label -> severity lookup.
type Table struct {
	levels  map[int]Level
	tags    []language.Tag
	matcher language.Matcher
}

// New builds a Table. Every model label must appear exactly once and every
// level must describe itself in each of tags; tags[0] is the fallback.
func New(levels []Level, tags ...language.Tag) (*Table, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("severity: at least one language required")
	}
	t := &Table{
		levels:  make(map[int]Level, len(levels)),
		tags:    tags,
		matcher: language.NewMatcher(tags),
	}
	for _, lvl := range levels {
		if !model.ValidLabel(lvl.Label) {
			return nil, fmt.Errorf("severity: label %d out of range", lvl.Label)
		}
		if _, dup := t.levels[lvl.Label]; dup {
			return nil, fmt.Errorf("severity: duplicate label %d", lvl.Label)
		}
		for _, tag := range tags {
			if lvl.Descriptions[tag] == "" {
				return nil, fmt.Errorf("severity: label %d has no %s description", lvl.Label, tag)
			}
		}
		t.levels[lvl.Label] = lvl
	}
	for _, l := range model.Labels() {
		if _, ok := t.levels[l]; !ok {
			return nil, fmt.Errorf("severity: label %d missing", l)
		}
	}
	return t, nil
}

// Lookup returns the level for label.
func (t *Table) Lookup(label int) (Level, error) {
	lvl, ok := t.levels[label]
	if !ok {
		return Level{}, fmt.Errorf("severity: unknown label %d", label)
	}
	return lvl, nil
}

// Describe returns the severity name and the description in lang (or the
// closest supported language).
func (t *Table) Describe(label int, lang language.Tag) (string, string, error) {
	lvl, err := t.Lookup(label)
	if err != nil {
		return "", "", err
	}
	return lvl.Name, lvl.Descriptions[t.Match(lang)], nil
}

// Match returns the supported language closest to lang.
func (t *Table) Match(lang language.Tag) language.Tag {
	_, idx, _ := t.matcher.Match(lang)
	return t.tags[idx]
}

// MatchHeader resolves an Accept-Language header value.
func (t *Table) MatchHeader(accept string) language.Tag {
	prefs, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(prefs) == 0 {
		return t.tags[0]
	}
	_, idx, _ := t.matcher.Match(prefs...)
	return t.tags[idx]
}

// Languages returns the supported languages, fallback first.
func (t *Table) Languages() []language.Tag {
	out := make([]language.Tag, len(t.tags))
	copy(out, t.tags)
	return out
}
