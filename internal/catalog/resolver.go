// Package catalog resolves the selectable blocks and tomes, either from the
// hand-written catalog or from the values present in the current records.
package catalog

import (
	"sort"
	"strings"

	"mandamentos/domain/commandment"
	"mandamentos/internal/normalizer"
	"mandamentos/internal/policy"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var descriptions = func() map[string]string {
	m := make(map[string]string, len(blocks)+len(tomos)+len(fallbacks))
	for _, list := range [][]commandment.CategoryEntry{blocks, tomos, fallbacks} {
		for _, e := range list {
			m[normalizer.NormalizeHeader(e.Title)] = e.Description
		}
	}
	return m
}()

// Static returns a copy of the fixed catalog for mode
func Static(mode commandment.Mode) []commandment.CategoryEntry {
	src := blocks
	if mode == commandment.ModeTomos {
		src = tomos
	}
	out := make([]commandment.CategoryEntry, len(src))
	copy(out, src)
	return out
}

// Describe looks title up ignoring case, surrounding space and accent
// composition, falling back to GenericDescription.
func Describe(title string) string {
	if d, ok := descriptions[normalizer.NormalizeHeader(title)]; ok {
		return d
	}
	return GenericDescription
}

// Dynamic derives the sorted, de-duplicated categories observed in records.
// collation is a BCP 47 tag; empty or unparsable tags sort by byte order.
func Dynamic(records []commandment.Commandment, mode commandment.Mode, collation string) []commandment.CategoryEntry {
	seen := make(map[string]bool)
	titles := make([]string, 0)
	for _, r := range records {
		t := strings.TrimSpace(r.Category(mode))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		titles = append(titles, t)
	}

	sortTitles(titles, collation)

	out := make([]commandment.CategoryEntry, len(titles))
	for i, t := range titles {
		out[i] = commandment.CategoryEntry{Title: t, Description: Describe(t)}
	}
	return out
}

// Resolve picks the category list for mode from source. It is a pure
// function of its inputs and is recomputed after every fetch.
func Resolve(records []commandment.Commandment, mode commandment.Mode, source policy.CategorySource, collation string) []commandment.CategoryEntry {
	if source == policy.SourceDynamic {
		return Dynamic(records, mode, collation)
	}
	return Static(mode)
}

// ForProfile resolves with the profile's source and collation
func ForProfile(records []commandment.Commandment, mode commandment.Mode, p *policy.Profile) []commandment.CategoryEntry {
	return Resolve(records, mode, p.Categories, p.Collation)
}

func sortTitles(titles []string, collation string) {
	if collation != "" {
		if tag, err := language.Parse(collation); err == nil {
			// Collator is not safe for concurrent use
			c := collate.New(tag)
			sort.SliceStable(titles, func(i, j int) bool {
				if cmp := c.CompareString(titles[i], titles[j]); cmp != 0 {
					return cmp < 0
				}
				return titles[i] < titles[j]
			})
			return
		}
	}
	sort.Strings(titles)
}
