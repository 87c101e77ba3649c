package pricelist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned when a price list lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// RowError reports a price list row that could not be read.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

var columnAliases = map[string]string{
	"name":            "name",
	"item":            "name",
	"description":     "name",
	"unit_price":      "unit_price",
	"price":           "unit_price",
	"cost":            "unit_price",
	"unit":            "unit",
	"wastage_percent": "wastage_percent",
	"wastage":         "wastage_percent",
	"category":        "category",
	"product_code":    "product_code",
	"code":            "product_code",
	"sku":             "product_code",
	"pack_size":       "pack_size",
}

// ParseCSV reads a supplier price list. The first record is a header naming
// the columns; name and unit_price are required. Rows that cannot be read are
// returned as RowErrors and do not stop the parse.
func ParseCSV(r io.Reader) ([]Entry, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: empty price list", ErrMissingColumn)
		}
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = strings.ReplaceAll(key, " ", "_")
		if canonical, ok := columnAliases[key]; ok {
			if _, seen := columns[canonical]; !seen {
				columns[canonical] = i
			}
		}
	}
	for _, required := range []string{"name", "unit_price"} {
		if _, ok := columns[required]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	field := func(record []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var entries []Entry
	var rowErrors []RowError
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, nil, fmt.Errorf("failed to read price list: %w", err)
			}
			rowErrors = append(rowErrors, RowError{Line: parseErr.Line, Message: parseErr.Err.Error()})
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		entry, err := parseRecord(field, record)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Message: err.Error()})
			continue
		}
		entries = append(entries, entry)
	}
	return entries, rowErrors, nil
}

func parseRecord(field func([]string, string) string, record []string) (Entry, error) {
	e := Entry{
		Name:        field(record, "name"),
		Unit:        field(record, "unit"),
		Category:    field(record, "category"),
		ProductCode: field(record, "product_code"),
		PackSize:    field(record, "pack_size"),
	}
	if e.Name == "" {
		return Entry{}, errors.New("name is empty")
	}

	price, err := parseNumber(field(record, "unit_price"))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid unit_price: %w", err)
	}
	if price < 0 {
		return Entry{}, errors.New("unit_price must not be negative")
	}
	e.UnitPrice = price

	if raw := field(record, "wastage_percent"); raw != "" {
		w, err := parseNumber(strings.TrimSuffix(raw, "%"))
		if err != nil {
			return Entry{}, fmt.Errorf("invalid wastage_percent: %w", err)
		}
		if w < 0 || w > 100 {
			return Entry{}, errors.New("wastage_percent must be between 0 and 100")
		}
		e.WastagePercent = &w
	}
	return e, nil
}

// parseNumber accepts plain numbers as well as "AED 1,250.50" style prices.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "AED"), "$")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, errors.New("value is empty")
	}
	return strconv.ParseFloat(s, 64)
}
