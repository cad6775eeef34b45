package app

import (
	"context"
	"time"

	"mandamentos/domain/commandment"
	"mandamentos/internal/analysis"
	"mandamentos/internal/catalog"
	"mandamentos/internal/errors"
	"mandamentos/internal/normalizer"
	"mandamentos/internal/policy"
	"mandamentos/internal/selection"
	"mandamentos/ports"

	"github.com/charmbracelet/log"
)

// Library holds the commandments loaded from the sheet
type Library struct {
	profile    *policy.Profile
	normalizer *normalizer.Normalizer
	state      *loader[*commandment.Snapshot]
	logger     *log.Logger
}

// NewLibrary creates a library reading rows from sheet and normalizing them
// with profile
func NewLibrary(sheet ports.SheetPort, profile *policy.Profile, logger *log.Logger) *Library {
	logger = logger.WithPrefix("library")
	lib := &Library{
		profile:    profile,
		normalizer: normalizer.New(profile),
		logger:     logger,
	}
	lib.state = newLoader("sheet", func(ctx context.Context) (*commandment.Snapshot, error) {
		rows, err := sheet.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		snap := commandment.NewSnapshot(profile.Name, lib.normalizer.NormalizeAll(rows))
		prev, _ := lib.state.get()
		changed := prev == nil || prev.Checksum != snap.Checksum
		logger.Info("snapshot loaded",
			"snapshot", snap.ID,
			"records", snap.Len(),
			"checksum", snap.Checksum.Short(),
			"changed", changed,
			"profile", profile.Name)
		return snap, nil
	}, logger)
	return lib
}

// Profile returns the normalization profile in use
func (l *Library) Profile() *policy.Profile { return l.profile }

// EnsureLoaded fetches the sheet unless records are already held
func (l *Library) EnsureLoaded(ctx context.Context) error {
	return l.state.ensure(ctx)
}

// Refresh fetches the sheet again. Concurrent calls share one request.
func (l *Library) Refresh(ctx context.Context) error {
	return l.state.refresh(ctx)
}

// Loading reports whether a fetch is in flight
func (l *Library) Loading() bool { return l.state.isLoading() }

// Err returns the error of the last fetch, nil after a success
func (l *Library) Err() error { return l.state.lastError() }

// Message returns the user-visible text for the last failed fetch
func (l *Library) Message() string { return errors.UserMessage(l.state.lastError()) }

// Snapshot returns the current snapshot, nil before the first success
func (l *Library) Snapshot() *commandment.Snapshot {
	snap, _ := l.state.get()
	return snap
}

// Records returns the current record set. Callers must not modify it.
func (l *Library) Records() []commandment.Commandment {
	if snap := l.Snapshot(); snap != nil {
		return snap.Records
	}
	return nil
}

// Categories lists the selectable categories for mode. An empty source
// uses the profile's.
func (l *Library) Categories(mode commandment.Mode, source policy.CategorySource) []commandment.CategoryEntry {
	if source == "" {
		source = l.profile.Categories
	}
	return catalog.Resolve(l.Records(), mode, source, l.profile.Collation)
}

// Filter returns the records matching sel under the profile's match policy
func (l *Library) Filter(sel *selection.Selection) []commandment.Commandment {
	return sel.Filter(l.Records(), l.profile.Match)
}

// Summary recomputes the chart data for the current record set
func (l *Library) Summary() analysis.Summary {
	return analysis.Aggregate(l.Records(), analysis.RulesFromProfile(l.profile))
}

// Subscribe calls fn with every newly loaded snapshot and returns the
// function that stops the calls
func (l *Library) Subscribe(fn func(*commandment.Snapshot)) func() {
	return l.state.subscribe(fn)
}

// LibraryStatus is the loading state reported to clients
type LibraryStatus struct {
	Records   int       `json:"records"`
	Loading   bool      `json:"loading"`
	Message   string    `json:"message,omitempty"`
	Code      string    `json:"code,omitempty"`
	Snapshot  string    `json:"snapshot,omitempty"`
	Checksum  string    `json:"checksum,omitempty"`
	FetchedAt time.Time `json:"fetched_at,omitzero"`
	Profile   string    `json:"profile"`
}

// Status summarizes the library state
func (l *Library) Status() LibraryStatus {
	st := LibraryStatus{
		Loading: l.Loading(),
		Message: l.Message(),
		Profile: l.profile.Name,
	}
	if err := l.Err(); err != nil {
		st.Code = errors.GetCode(err)
	}
	if snap := l.Snapshot(); snap != nil {
		st.Records = snap.Len()
		st.Snapshot = snap.ID.String()
		st.Checksum = snap.Checksum.String()
		st.FetchedAt = snap.FetchedAt
	}
	return st
}
