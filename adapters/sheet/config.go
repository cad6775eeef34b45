package sheet

import "time"

// Format selects the decoder for the published sheet
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	// FormatAuto sniffs the response: spreadsheetml content types and zip
	// payloads are read as XLSX, everything else as CSV
	FormatAuto Format = "auto"
)

// DefaultURL is the published CSV export of the commandments sheet
const DefaultURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQv4q3ANfmKZp4gG5NDG9LaY2l4d3o5-bKH5akeg2uBPd1MgKRQjCc0JW6DgFLYWJV0mfCIzolq4hqe/pub?output=csv"

// Config holds the sheet source settings
type Config struct {
	URL       string        `json:"url"`
	Format    Format        `json:"format"`
	CacheBust bool          `json:"cache_bust"`
	Timeout   time.Duration `json:"timeout"`
	MaxBytes  int64         `json:"max_bytes"`
}

// DefaultConfig returns the settings used by the public site
func DefaultConfig() Config {
	return Config{
		URL:       DefaultURL,
		Format:    FormatAuto,
		CacheBust: true,
		Timeout:   30 * time.Second,
		MaxBytes:  16 << 20,
	}
}
