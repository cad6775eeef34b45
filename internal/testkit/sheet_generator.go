package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"

	"mandamentos/domain/commandment"
	"mandamentos/internal/catalog"

	"github.com/xuri/excelize/v2"
)

// SheetGeneratorConfig configures the synthetic commandments sheet
type SheetGeneratorConfig struct {
	RowCount        int      `json:"row_count"`
	Seed            int64    `json:"seed"`
	Headers         []string `json:"headers"`
	PositiveRate    float64  `json:"positive_rate"`
	MissingTomoRate float64  `json:"missing_tomo_rate"`
	BlankRowRate    float64  `json:"blank_row_rate"`
	BOM             bool     `json:"bom"`
}

// CurrentHeaders is the column layout of the live sheet
var CurrentHeaders = []string{"N° do Mandamento", "Nº", "M/P", "A/N", "Quem", "Onde", "Bloco", "Tomo", "Mandamento", "Referência"}

// DefaultSheetConfig returns a small sheet shaped like the live one
func DefaultSheetConfig() SheetGeneratorConfig {
	return SheetGeneratorConfig{
		RowCount:        50,
		Seed:            42,
		Headers:         CurrentHeaders,
		PositiveRate:    248.0 / 613.0,
		MissingTomoRate: 0.05,
		BlankRowRate:    0.02,
		BOM:             true,
	}
}

// SheetGenerator builds deterministic sheets for the given config
type SheetGenerator struct {
	config SheetGeneratorConfig
	rng    *rand.Rand
}

// NewSheetGenerator creates a generator seeded from config
func NewSheetGenerator(config SheetGeneratorConfig) *SheetGenerator {
	return &SheetGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Records returns the header row followed by the data rows. Blank rows are
// interleaved at the configured rate and do not count towards RowCount.
func (g *SheetGenerator) Records() [][]string {
	blocks := catalog.Static(commandment.ModeBlocos)
	tomos := catalog.Static(commandment.ModeTomos)

	records := [][]string{append([]string(nil), g.config.Headers...)}
	for i := 0; i < g.config.RowCount; i++ {
		if g.rng.Float64() < g.config.BlankRowRate {
			records = append(records, make([]string, len(g.config.Headers)))
		}

		mp := "N"
		if g.rng.Float64() < g.config.PositiveRate {
			mp = "P"
		}
		tomo := tomos[g.rng.Intn(len(tomos))].Title
		if g.rng.Float64() < g.config.MissingTomoRate {
			tomo = ""
		}
		values := map[string]string{
			"N° do Mandamento": fmt.Sprintf("%d", i+1),
			"Nº":               fmt.Sprintf("%s%d", mp, g.rng.Intn(365)+1),
			"M/P":              mp,
			"A/N":              []string{"A", "N"}[g.rng.Intn(2)],
			"Quem":             []string{"Todos", "Homens", "Sacerdotes", "Rei"}[g.rng.Intn(4)],
			"Onde":             []string{"Em todo lugar", "Israel", "Templo"}[g.rng.Intn(3)],
			"Bloco":            blocks[g.rng.Intn(len(blocks))].Title,
			"Tomo":             tomo,
			"Mandamento":       fmt.Sprintf("Mandamento sintético %d", i+1),
			"Referência":       fmt.Sprintf("Dt %d:%d", g.rng.Intn(34)+1, g.rng.Intn(30)+1),
		}

		row := make([]string, len(g.config.Headers))
		for j, h := range g.config.Headers {
			row[j] = values[h]
		}
		records = append(records, row)
	}
	return records
}

// CSV renders the sheet as a published CSV export
func (g *SheetGenerator) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if g.config.BOM {
		buf.WriteString("\ufeff")
	}
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(g.Records()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSX renders the sheet as a single-worksheet workbook
func (g *SheetGenerator) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, rec := range g.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
