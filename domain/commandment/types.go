package commandment

import (
	"fmt"
	"strings"
	"time"

	"mandamentos/domain/core"
)

// Cell is one spreadsheet cell keyed by the header published above it
type Cell struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// RawRow is a spreadsheet row in original column order. Cells missing from
// ragged rows are simply absent, so rows need not share the same headers.
type RawRow []Cell

// Get returns the value of the first cell whose header matches exactly
func (r RawRow) Get(header string) (string, bool) {
	for _, c := range r {
		if c.Header == header {
			return c.Value, true
		}
	}
	return "", false
}

// Headers returns the row's headers in column order
func (r RawRow) Headers() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Header
	}
	return out
}

// ContentEntry is a residual column kept verbatim for display
type ContentEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Commandment is the canonical record produced from one RawRow
type Commandment struct {
	ID            string `json:"id"`
	Rambam        string `json:"rambam"`
	Mode          string `json:"mp"`
	Applicability string `json:"an"`
	Subject       string `json:"quem"`
	Location      string `json:"onde"`
	Book          string `json:"book"`
	Chapter       string `json:"chapter"`
	Verse         string `json:"verse"`
	Reference     string `json:"reference"`

	Block string `json:"block"`
	Tomo  string `json:"tomo"`

	Content []ContentEntry `json:"content"`

	// Type mirrors Mode, default included, for the chart producer
	Type string `json:"type"`
}

// Category returns the field compared against a selected category for mode
func (c Commandment) Category(mode Mode) string {
	if mode == ModeTomos {
		return c.Tomo
	}
	return c.Block
}

// CategoryEntry is a selectable block or tome
type CategoryEntry struct {
	Title       string `json:"title"`
	Description string `json:"desc"`
}

// Mode selects which taxonomy drives filtering
type Mode string

const (
	ModeBlocos Mode = "blocos"
	ModeTomos  Mode = "tomos"
)

// DefaultMode is the taxonomy shown before the user picks one
const DefaultMode = ModeBlocos

// ParseMode accepts the mode names used in URLs and flags
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "blocos", "bloco", "blocks", "block":
		return ModeBlocos, nil
	case "tomos", "tomo", "tomes", "tome":
		return ModeTomos, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want blocos or tomos)", s)
	}
}

// Snapshot is the full record set produced by one successful fetch
type Snapshot struct {
	ID        core.SnapshotID `json:"id"`
	FetchedAt time.Time       `json:"fetched_at"`
	Profile   string          `json:"profile"`
	Checksum  core.Hash       `json:"checksum"`
	Records   []Commandment   `json:"records"`
}

// NewSnapshot stamps a freshly normalized record set
func NewSnapshot(profile string, records []Commandment) *Snapshot {
	return &Snapshot{
		ID:        core.SnapshotID(core.NewID()),
		FetchedAt: time.Now(),
		Profile:   profile,
		Checksum:  Checksum(records),
		Records:   records,
	}
}

// Checksum digests the normalized fields of records in order, so two fetches
// of an unchanged sheet hash alike
func Checksum(records []Commandment) core.Hash {
	fields := make([]string, 0, len(records)*8)
	for _, r := range records {
		fields = append(fields, r.ID, r.Rambam, r.Mode, r.Block, r.Tomo, r.Reference)
		for _, c := range r.Content {
			fields = append(fields, c.Label, c.Value)
		}
	}
	return core.HashFields(fields...)
}

// Len reports the number of records, tolerating a nil snapshot
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}
