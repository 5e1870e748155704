package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

// Export columns. Only Date and Amount are required.
const (
	colDate                = "date"
	colDescription         = "description"
	colOriginalDescription = "original description"
	colCategory            = "category"
	colAmount              = "amount"
	colStatus              = "status"
)

// dateLayouts are tried in order for the Date column.
var dateLayouts = []string{
	model.DateLayout,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006/01/02",
	time.RFC3339,
}

// CSVParser parses bank transaction exports with a header row naming
// Date, Description, Original Description, Category, Amount and Status.
type CSVParser struct {
	location *time.Location
}

// NewCSVParser creates a parser that reads dates in the local time zone.
func NewCSVParser() *CSVParser {
	return &CSVParser{location: time.Local}
}

// Extensions implements Parser.
func (p *CSVParser) Extensions() []string { return []string{".csv"} }

// Parse reads a CSV export. Rows with an unparseable date are kept with an
// invalid date; rows with an unparseable amount or no description at all
// are skipped. Both cases are logged.
func (p *CSVParser) Parse(ctx context.Context, r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	var coerced, skipped int

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}

		txn, ok := p.parseRow(record, columns, line)
		if !ok {
			skipped++
			continue
		}
		if !txn.HasDate() {
			coerced++
		}
		transactions = append(transactions, txn)
	}

	slog.Debug("Parsed CSV export",
		"transactions", len(transactions),
		"invalid_dates", coerced,
		"skipped", skipped)

	return transactions, nil
}

func (p *CSVParser) parseRow(record []string, columns map[string]int, line int) (model.Transaction, bool) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	amount, err := parseAmount(field(colAmount))
	if err != nil {
		slog.Warn("Skipping row with invalid amount", "line", line, "amount", field(colAmount), "error", err)
		return model.Transaction{}, false
	}

	txn := model.Transaction{
		Description:         field(colDescription),
		OriginalDescription: field(colOriginalDescription),
		Category:            field(colCategory),
		Status:              field(colStatus),
		Amount:              amount,
	}
	if txn.Description == "" && txn.OriginalDescription == "" {
		slog.Warn("Skipping row without description", "line", line)
		return model.Transaction{}, false
	}
	if txn.Description == "" {
		txn.Description = txn.OriginalDescription
	}

	rawDate := field(colDate)
	date, ok := p.parseDate(rawDate)
	if !ok {
		slog.Warn("Invalid date kept as missing", "line", line, "date", rawDate)
	}
	txn.Date = date

	return txn, true
}

func (p *CSVParser) parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, p.location); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, p.location), true
		}
	}
	return time.Time{}, false
}

// parseAmount accepts "-12.34", "$1,234.50" and accounting-style "(12.34)".
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}

	for _, required := range []string{colDate, colAmount} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	return columns, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
