package app

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mandamentos/adapters/sheet"
	"mandamentos/domain/blog"
	"mandamentos/domain/commandment"
	"mandamentos/internal/errors"
	"mandamentos/internal/logging"
	"mandamentos/internal/policy"
	"mandamentos/internal/selection"
	"mandamentos/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheetRows() []commandment.RawRow {
	return []commandment.RawRow{
		{{Header: "ID", Value: "1"}, {Header: "M/P", Value: "M"}, {Header: "Bloco", Value: "Deus"}, {Header: "Tomo", Value: "Conhecimento (Mada)"}},
		{{Header: "ID", Value: "2"}, {Header: "M/P", Value: "P"}, {Header: "Bloco", Value: "Lei"}, {Header: "Tomo", Value: "Conhecimento (Mada)"}},
		{{Header: "ID", Value: "3"}, {Header: "M/P", Value: "N"}, {Header: "Bloco", Value: "Lei"}, {Header: "Tomo", Value: "Amor (Ahavá)"}},
	}
}

type countingSheet struct {
	calls atomic.Int32
	rows  []commandment.RawRow
	err   error
}

func (s *countingSheet) Fetch(ctx context.Context) ([]commandment.RawRow, error) {
	s.calls.Add(1)
	return s.rows, s.err
}

func newTestLibrary(sheet ports.SheetPort) *Library {
	return NewLibrary(sheet, policy.MustLoad("current"), logging.Discard())
}

func TestEnsureLoadedFetchesOnce(t *testing.T) {
	sheet := &countingSheet{rows: sheetRows()}
	lib := newTestLibrary(sheet)

	require.NoError(t, lib.EnsureLoaded(context.Background()))
	require.NoError(t, lib.EnsureLoaded(context.Background()))
	assert.Equal(t, int32(1), sheet.calls.Load())
	assert.Len(t, lib.Records(), 3)
	assert.Equal(t, "current", lib.Snapshot().Profile)

	require.NoError(t, lib.Refresh(context.Background()))
	assert.Equal(t, int32(2), sheet.calls.Load())
}

func TestFailedRefreshKeepsRecords(t *testing.T) {
	sheet := &countingSheet{rows: sheetRows()}
	lib := newTestLibrary(sheet)
	require.NoError(t, lib.Refresh(context.Background()))
	before := lib.Snapshot()

	sheet.err = errors.FetchFailed("spreadsheet", stderrors.New("connection reset"))
	err := lib.Refresh(context.Background())
	require.Error(t, err)

	assert.Same(t, before, lib.Snapshot())
	assert.Equal(t, errors.CodeFetchFailed, lib.Status().Code)
	assert.Contains(t, lib.Message(), "Não foi possível carregar")
	assert.False(t, lib.Loading())

	sheet.err = nil
	require.NoError(t, lib.Refresh(context.Background()))
	assert.Empty(t, lib.Message())
	assert.NotEqual(t, before.ID, lib.Snapshot().ID)
}

func TestFailedFirstLoadRetriesOnEnsure(t *testing.T) {
	sheet := &countingSheet{err: errors.EmptyResult("spreadsheet")}
	lib := newTestLibrary(sheet)

	require.Error(t, lib.EnsureLoaded(context.Background()))
	assert.Nil(t, lib.Snapshot())
	assert.Equal(t, "Nenhum registro foi encontrado na fonte de dados.", lib.Message())

	sheet.err = nil
	sheet.rows = sheetRows()
	require.NoError(t, lib.EnsureLoaded(context.Background()))
	assert.Equal(t, int32(2), sheet.calls.Load())
}

func TestConcurrentRefreshSharesFetch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	lib := newTestLibrary(ports.SheetFunc(func(ctx context.Context) ([]commandment.RawRow, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return sheetRows(), nil
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, lib.Refresh(context.Background()))
	}()
	<-started
	assert.True(t, lib.Loading())

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, lib.Refresh(context.Background()))
		}()
	}
	// give the followers time to join the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, lib.Loading())
}

func TestCancelledCallerDoesNotAbortFetch(t *testing.T) {
	release := make(chan struct{})
	lib := newTestLibrary(ports.SheetFunc(func(ctx context.Context) ([]commandment.RawRow, error) {
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return sheetRows(), nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lib.Refresh(ctx) }()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	assert.Eventually(t, func() bool { return lib.Snapshot() != nil }, time.Second, 10*time.Millisecond)
}

func TestSubscribe(t *testing.T) {
	lib := newTestLibrary(&countingSheet{rows: sheetRows()})

	var seen []int
	stop := lib.Subscribe(func(s *commandment.Snapshot) { seen = append(seen, s.Len()) })
	require.NoError(t, lib.Refresh(context.Background()))
	stop()
	require.NoError(t, lib.Refresh(context.Background()))

	assert.Equal(t, []int{3}, seen)
}

func TestDerivedViews(t *testing.T) {
	lib := newTestLibrary(&countingSheet{rows: sheetRows()})
	require.NoError(t, lib.EnsureLoaded(context.Background()))

	blocks := lib.Categories(commandment.ModeBlocos, "")
	require.Len(t, blocks, 2)
	assert.Equal(t, "Deus", blocks[0].Title)
	assert.Len(t, lib.Categories(commandment.ModeTomos, policy.SourceStatic), 14)

	sel := selection.New()
	assert.Empty(t, lib.Filter(sel))
	require.NoError(t, sel.SelectCategory("Lei"))
	assert.Len(t, lib.Filter(sel), 2)

	summary := lib.Summary()
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Positive)
	assert.Equal(t, 2, summary.Negative)
	assert.Equal(t, "Conhecimento (Mada)", summary.TopCategories[0].Title)

	st := lib.Status()
	assert.Equal(t, 3, st.Records)
	assert.NotEmpty(t, st.Snapshot)
}

func TestBlankModeCellChartsNegative(t *testing.T) {
	csv := "Bloco,Mandamento,M/P\nDeus,Crer em Deus,\nLei,Estudar Torah,\n"
	source := ports.SheetFunc(func(ctx context.Context) ([]commandment.RawRow, error) {
		return sheet.ParseCSV(strings.NewReader(csv))
	})

	for _, name := range []string{"current", "legacy"} {
		lib := NewLibrary(source, policy.MustLoad(name), logging.Discard())
		require.NoError(t, lib.EnsureLoaded(context.Background()), name)

		records := lib.Records()
		require.Len(t, records, 2, name)
		assert.Equal(t, "-", records[0].Mode, name)
		assert.Equal(t, records[0].Mode, records[0].Type, name)

		summary := lib.Summary()
		assert.Equal(t, 0, summary.Positive, name)
		assert.Equal(t, 2, summary.Negative, name)
	}
}

func TestBlogState(t *testing.T) {
	var fail atomic.Bool
	b := NewBlog(ports.FeedFunc(func(ctx context.Context) ([]blog.Post, error) {
		if fail.Load() {
			return nil, errors.FeedStatus("error")
		}
		return []blog.Post{{Raw: map[string]any{"title": "Shabat"}}}, nil
	}), logging.Discard())

	require.NoError(t, b.EnsureLoaded(context.Background()))
	require.Len(t, b.Posts(), 1)
	assert.Equal(t, "Shabat", b.Posts()[0].Title())

	fail.Store(true)
	require.Error(t, b.Refresh(context.Background()))
	assert.Len(t, b.Posts(), 1)
	assert.Equal(t, "O serviço do blog está indisponível no momento.", b.Message())
	assert.Equal(t, errors.CodeFeedStatus, b.Status().Code)
}
