package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"mandamentos/internal/analysis"

	"github.com/charmbracelet/log"
)

const (
	gold   = "#d4af37"
	indigo = "#1e1b4b"
)

// Dataset is one Chart.js dataset
type Dataset struct {
	Label           string `json:"label,omitempty"`
	Data            []int  `json:"data"`
	BackgroundColor any    `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`
	BorderWidth     int    `json:"borderWidth"`
}

// ChartData holds labels and datasets
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// ChartConfig is a complete Chart.js configuration
type ChartConfig struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Type    string         `json:"type"`
	Data    ChartData      `json:"data"`
	Options map[string]any `json:"options,omitempty"`
}

// ChartConfigs builds the polarity doughnut and the tome bar chart
func ChartConfigs(s analysis.Summary) []ChartConfig {
	legend := map[string]any{"legend": map[string]any{"labels": map[string]any{"color": "white"}}}

	labels := make([]string, len(s.TopCategories))
	counts := make([]int, len(s.TopCategories))
	for i, c := range s.TopCategories {
		labels[i] = c.Title
		counts[i] = c.Count
	}

	return []ChartConfig{
		{
			ID:    "chartType",
			Title: "Positivos e Negativos",
			Type:  "doughnut",
			Data: ChartData{
				Labels: []string{"Positivos (Fazer)", "Negativos (Não Fazer)"},
				Datasets: []Dataset{{
					Data:            []int{s.Positive, s.Negative},
					BackgroundColor: []string{gold, indigo},
					BorderColor:     "#ffffff",
					BorderWidth:     1,
				}},
			},
			Options: map[string]any{"plugins": legend},
		},
		{
			ID:    "chartTomos",
			Title: "Mandamentos por Tomo",
			Type:  "bar",
			Data: ChartData{
				Labels: labels,
				Datasets: []Dataset{{
					Label:           "Mandamentos por Tomo",
					Data:            counts,
					BackgroundColor: "rgba(212, 175, 55, 0.6)",
					BorderColor:     gold,
					BorderWidth:     1,
				}},
			},
			Options: map[string]any{
				"scales": map[string]any{
					"y": map[string]any{"beginAtZero": true, "ticks": map[string]any{"color": "gray"}},
					"x": map[string]any{"ticks": map[string]any{"color": "gray"}},
				},
				"plugins": legend,
			},
		},
	}
}

// Chart is a drawn chart that must be destroyed before its replacement is
// drawn
type Chart interface {
	Destroy()
}

// Surface draws chart configurations
type Surface interface {
	Draw(cfg ChartConfig) (Chart, error)
}

// Board owns the chart handles for one surface. Updates arriving while no
// surface is attached are kept and drawn on the next Attach.
type Board struct {
	mu      sync.Mutex
	surface Surface
	charts  []Chart
	pending *analysis.Summary
	logger  *log.Logger
}

// NewBoard creates a detached board
func NewBoard(logger *log.Logger) *Board {
	return &Board{logger: logger.WithPrefix("charts")}
}

// Attach binds the board to surface and draws any pending update
func (b *Board) Attach(surface Surface) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.destroyLocked()
	b.surface = surface
	if b.pending == nil {
		return nil
	}
	summary := *b.pending
	b.pending = nil
	return b.renderLocked(summary)
}

// Detach destroys the drawn charts and releases the surface
func (b *Board) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.destroyLocked()
	b.surface = nil
}

// Update redraws the charts from summary, or keeps it pending while detached
func (b *Board) Update(summary analysis.Summary) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface == nil {
		b.pending = &summary
		return nil
	}
	return b.renderLocked(summary)
}

// Attached reports whether a surface is bound
func (b *Board) Attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface != nil
}

func (b *Board) renderLocked(summary analysis.Summary) error {
	b.destroyLocked()
	for _, cfg := range ChartConfigs(summary) {
		chart, err := b.surface.Draw(cfg)
		if err != nil {
			b.destroyLocked()
			return fmt.Errorf("failed to draw %s: %w", cfg.ID, err)
		}
		b.charts = append(b.charts, chart)
	}
	b.logger.Debug("charts drawn", "total", summary.Total, "bars", len(summary.TopCategories))
	return nil
}

func (b *Board) destroyLocked() {
	for _, c := range b.charts {
		c.Destroy()
	}
	b.charts = nil
}

// JSONSurface keeps the live chart configs for serving to Chart.js clients
type JSONSurface struct {
	mu     sync.RWMutex
	live   map[int]ChartConfig
	nextID int
}

// NewJSONSurface creates an empty surface
func NewJSONSurface() *JSONSurface {
	return &JSONSurface{live: make(map[int]ChartConfig)}
}

// Draw registers cfg as live
func (s *JSONSurface) Draw(cfg ChartConfig) (Chart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.live[id] = cfg
	return &jsonChart{surface: s, id: id}, nil
}

// Configs returns the live configs in drawing order
func (s *JSONSurface) Configs() []ChartConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChartConfig, 0, len(s.live))
	for id := 0; id < s.nextID; id++ {
		if cfg, ok := s.live[id]; ok {
			out = append(out, cfg)
		}
	}
	return out
}

type jsonChart struct {
	surface *JSONSurface
	id      int
}

func (c *jsonChart) Destroy() {
	c.surface.mu.Lock()
	delete(c.surface.live, c.id)
	c.surface.mu.Unlock()
}

// TextSurface prints charts as horizontal bars
type TextSurface struct {
	out   io.Writer
	width int
}

// NewTextSurface writes bars of at most width cells to out
func NewTextSurface(out io.Writer, width int) *TextSurface {
	if width <= 0 {
		width = 40
	}
	return &TextSurface{out: out, width: width}
}

// Draw prints cfg immediately
func (s *TextSurface) Draw(cfg ChartConfig) (Chart, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", cfg.Title)

	var data []int
	if len(cfg.Data.Datasets) > 0 {
		data = cfg.Data.Datasets[0].Data
	}
	peak, labelWidth := 0, 0
	for i, v := range data {
		peak = max(peak, v)
		if i < len(cfg.Data.Labels) {
			labelWidth = max(labelWidth, len([]rune(cfg.Data.Labels[i])))
		}
	}
	for i, v := range data {
		label := ""
		if i < len(cfg.Data.Labels) {
			label = cfg.Data.Labels[i]
		}
		bar := 0
		if peak > 0 {
			bar = v * s.width / peak
		}
		pad := strings.Repeat(" ", labelWidth-len([]rune(label)))
		fmt.Fprintf(&b, "  %s%s  %s %d\n", label, pad, strings.Repeat("█", bar), v)
	}
	b.WriteString("\n")

	if _, err := io.WriteString(s.out, b.String()); err != nil {
		return nil, err
	}
	return textChart{}, nil
}

type textChart struct{}

func (textChart) Destroy() {}
