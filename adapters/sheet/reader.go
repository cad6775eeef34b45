package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mandamentos/domain/commandment"
	"mandamentos/internal/errors"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"
)

const source = "spreadsheet"

// Reader fetches the published sheet and splits it into raw rows
type Reader struct {
	config     Config
	httpClient *http.Client
	logger     *log.Logger
	now        func() time.Time
}

// NewReader creates a sheet reader. A nil client gets one with the
// configured timeout.
func NewReader(config Config, client *http.Client, logger *log.Logger) *Reader {
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Reader{
		config:     config,
		httpClient: client,
		logger:     logger.WithPrefix("sheet"),
		now:        time.Now,
	}
}

// Fetch downloads the sheet and returns its data rows in sheet order.
// Transport errors and non-2xx answers are FETCH_FAILED, undecodable bodies
// PARSE_FAILED and sheets without data rows EMPTY_RESULT.
func (r *Reader) Fetch(ctx context.Context) ([]commandment.RawRow, error) {
	startTime := r.now()

	target, err := r.buildURL()
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.FetchFailed(source, err)
	}
	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet;q=0.9, */*;q=0.1")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, errors.FetchFailed(source, err)
	}
	defer resp.Body.Close()

	limit := r.maxBytes()
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, errors.FetchFailed(source, fmt.Errorf("failed to read response: %w", err))
	}
	if int64(len(body)) > limit {
		return nil, errors.FetchFailed(source, fmt.Errorf("response exceeds %d bytes", limit))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.FetchFailed(source, fmt.Errorf("HTTP status %d", resp.StatusCode))
	}

	format := r.detectFormat(resp.Header.Get("Content-Type"), body)

	var rows []commandment.RawRow
	switch format {
	case FormatXLSX:
		rows, err = ParseXLSX(bytes.NewReader(body))
	default:
		rows, err = ParseCSV(bytes.NewReader(body))
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("sheet fetched",
		"format", format,
		"bytes", len(body),
		"rows", len(rows),
		"elapsed", time.Since(startTime).Round(time.Millisecond))

	return rows, nil
}

// buildURL appends the cache-busting timestamp when enabled
func (r *Reader) buildURL() (string, error) {
	u, err := url.Parse(r.config.URL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("sheet URL %q must be absolute", r.config.URL)
	}
	if r.config.CacheBust {
		q := u.Query()
		q.Set("_", strconv.FormatInt(r.now().UnixMilli(), 10))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (r *Reader) detectFormat(contentType string, body []byte) Format {
	switch r.config.Format {
	case FormatCSV, FormatXLSX:
		return r.config.Format
	}
	if strings.Contains(contentType, "spreadsheetml") || bytes.HasPrefix(body, []byte("PK\x03\x04")) {
		return FormatXLSX
	}
	return FormatCSV
}

func (r *Reader) maxBytes() int64 {
	if r.config.MaxBytes > 0 {
		return r.config.MaxBytes
	}
	return DefaultConfig().MaxBytes
}

// ParseCSV reads standard quoted CSV whose first record is the header row
func ParseCSV(in io.Reader) ([]commandment.RawRow, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseFailed(source, err)
	}
	return splitRows(records)
}

// ParseXLSX reads the first worksheet of an XLSX workbook
func ParseXLSX(in io.Reader) ([]commandment.RawRow, error) {
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, errors.ParseFailed(source, fmt.Errorf("failed to open workbook: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.EmptyResult(source)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.ParseFailed(source, fmt.Errorf("failed to read %s: %w", sheets[0], err))
	}
	return splitRows(records)
}

// splitRows pairs every data record with the header row. Blank records are
// skipped; short records simply lack the trailing cells and cells beyond
// the header width are dropped.
func splitRows(records [][]string) ([]commandment.RawRow, error) {
	headerAt := -1
	for i, rec := range records {
		if !blank(rec) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, errors.EmptyResult(source)
	}

	headers := make([]string, len(records[headerAt]))
	copy(headers, records[headerAt])
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")

	rows := make([]commandment.RawRow, 0, len(records)-headerAt-1)
	for _, rec := range records[headerAt+1:] {
		if blank(rec) {
			continue
		}
		row := make(commandment.RawRow, 0, len(headers))
		for j, cell := range rec {
			if j >= len(headers) {
				break
			}
			row = append(row, commandment.Cell{Header: headers[j], Value: cell})
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.EmptyResult(source)
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
