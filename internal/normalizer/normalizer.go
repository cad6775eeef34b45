// Package normalizer maps loosely named spreadsheet columns onto the
// canonical Commandment record.
package normalizer

import (
	"strings"

	"mandamentos/domain/commandment"
	"mandamentos/internal/policy"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader folds a header for candidate comparison: NFC composition,
// surrounding whitespace trimmed, lowercased.
func NormalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(h)))
}

// Normalizer resolves rows against one profile. It holds no per-row state
// and is safe for concurrent use.
type Normalizer struct {
	profile    *policy.Profile
	candidates map[policy.Field]map[string]bool
	listed     map[string]bool
}

// New indexes the profile's candidate lists
func New(p *policy.Profile) *Normalizer {
	n := &Normalizer{
		profile:    p,
		candidates: make(map[policy.Field]map[string]bool, len(p.Fields)),
		listed:     make(map[string]bool),
	}
	for _, fs := range p.Fields {
		set := make(map[string]bool, len(fs.Candidates))
		for _, c := range fs.Candidates {
			key := NormalizeHeader(c)
			set[key] = true
			n.listed[key] = true
		}
		n.candidates[fs.Field] = set
	}
	return n
}

// Profile returns the profile the normalizer was built from
func (n *Normalizer) Profile() *policy.Profile {
	return n.profile
}

// Normalize produces exactly one Commandment for row. Missing or empty
// columns fall back to the profile defaults; nothing here fails.
func (n *Normalizer) Normalize(row commandment.RawRow) commandment.Commandment {
	keys := make([]string, len(row))
	for i, c := range row {
		keys[i] = NormalizeHeader(c.Header)
	}

	raw := make(map[policy.Field]string, len(n.profile.Fields))
	winners := make(map[int]bool, len(n.profile.Fields))
	for _, fs := range n.profile.Fields {
		set := n.candidates[fs.Field]
		for i, k := range keys {
			if set[k] {
				raw[fs.Field] = row[i].Value
				winners[i] = true
				break
			}
		}
	}

	value := func(f policy.Field) string {
		if v := raw[f]; v != "" {
			return v
		}
		if fs, ok := n.profile.Spec(f); ok {
			return fs.Default
		}
		return ""
	}

	mode := value(policy.FieldMode)
	return commandment.Commandment{
		ID:            value(policy.FieldID),
		Rambam:        value(policy.FieldRambam),
		Mode:          mode,
		Applicability: value(policy.FieldApplies),
		Subject:       value(policy.FieldSubject),
		Location:      value(policy.FieldLocation),
		Book:          value(policy.FieldBook),
		Chapter:       value(policy.FieldChapter),
		Verse:         value(policy.FieldVerse),
		Reference:     value(policy.FieldReference),
		Block:         value(policy.FieldBlock),
		Tomo:          value(policy.FieldTomo),
		Content:       n.residual(row, keys, winners),
		Type:          mode,
	}
}

// NormalizeAll maps rows one to one, preserving order
func (n *Normalizer) NormalizeAll(rows []commandment.RawRow) []commandment.Commandment {
	out := make([]commandment.Commandment, len(rows))
	for i, row := range rows {
		out[i] = n.Normalize(row)
	}
	return out
}

func (n *Normalizer) residual(row commandment.RawRow, keys []string, winners map[int]bool) []commandment.ContentEntry {
	content := make([]commandment.ContentEntry, 0, len(row))
	for i, c := range row {
		switch n.profile.Residual.Claim {
		case policy.ClaimCandidate:
			if n.listed[keys[i]] {
				continue
			}
		default:
			if winners[i] {
				continue
			}
		}
		if n.profile.Residual.SkipEmpty && strings.TrimSpace(c.Value) == "" {
			continue
		}
		content = append(content, commandment.ContentEntry{Label: c.Header, Value: c.Value})
	}
	return content
}

// Normalize is a one-off convenience around New(p).Normalize(row)
func Normalize(row commandment.RawRow, p *policy.Profile) commandment.Commandment {
	return New(p).Normalize(row)
}
