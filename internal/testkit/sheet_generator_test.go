package testkit

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"mandamentos/adapters/feed"
	"mandamentos/adapters/sheet"
	"mandamentos/internal/normalizer"
	"mandamentos/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetGeneratorDeterministic(t *testing.T) {
	a := NewSheetGenerator(DefaultSheetConfig()).Records()
	b := NewSheetGenerator(DefaultSheetConfig()).Records()
	assert.Equal(t, a, b)
	assert.Equal(t, CurrentHeaders, a[0])
}

func TestSheetGeneratorCSVRoundTrip(t *testing.T) {
	config := DefaultSheetConfig()
	config.RowCount = 120
	config.BlankRowRate = 0.1

	body, err := NewSheetGenerator(config).CSV()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("\xef\xbb\xbf")))

	rows, err := sheet.ParseCSV(bytes.NewReader(body))
	require.NoError(t, err)
	require.Len(t, rows, config.RowCount)

	records := normalizer.New(policy.MustLoad("current")).NormalizeAll(rows)
	for i, r := range records {
		assert.NotEqual(t, "?", r.ID, "row %d", i)
		assert.NotEmpty(t, r.Block)
		assert.NotEmpty(t, r.Tomo, "current profile falls back to Geral")
		assert.Contains(t, []string{"P", "N"}, r.Mode)
	}
}

func TestSheetGeneratorXLSX(t *testing.T) {
	config := DefaultSheetConfig()
	config.RowCount = 10

	body, err := NewSheetGenerator(config).XLSX()
	require.NoError(t, err)

	rows, err := sheet.ParseXLSX(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Len(t, rows, 10)
}

func TestUpstreams(t *testing.T) {
	up := NewSheetUpstream(t)
	cfg := sheet.DefaultConfig()
	cfg.URL = up.URL
	rows, err := sheet.NewReader(cfg, nil, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, DefaultSheetConfig().RowCount)
	assert.Equal(t, 1, up.Hits())

	fu := NewFeedUpstream(t, 3)
	posts, err := feed.NewReader(feed.Config{API: fu.URL + "/?rss_url=", RSSURL: feed.DefaultRSSURL}, nil, nil).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "Texto do estudo 1.", posts[0].Excerpt(0))

	down := NewUpstream(t, http.StatusServiceUnavailable, "", nil)
	cfg.URL = down.URL
	_, err = sheet.NewReader(cfg, nil, nil).Fetch(context.Background())
	assert.Error(t, err)
}
