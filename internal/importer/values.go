package importer

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var errEmpty = errors.New("empty value")

// timeLayouts are tried in order. Layouts without an offset are read in the
// importer location.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
	"02/01/2006",
}

// cell returns the trimmed value at idx, or "" when the row is short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

// identifier renders spreadsheet numbers such as "12345.0" or "1.2345E+4"
// as plain integers. Anything else is returned trimmed.
func identifier(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, ".eE") {
		return s
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return s
	}

	return strconv.FormatInt(int64(f), 10)
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmpty
	}

	var firstErr error

	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}

		if firstErr == nil {
			firstErr = err
		}
	}

	// Raw spreadsheet dates are serial day numbers.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}

	return time.Time{}, firstErr
}

// optionalTime is parseTime that maps an empty cell to nil.
func optionalTime(s string, loc *time.Location) (*time.Time, error) {
	t, err := parseTime(s, loc)
	if errors.Is(err, errEmpty) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &t, nil
}

// parseLocalAmount parses amounts written either with a decimal comma and
// dot thousands ("1.234,56") or with a plain decimal point ("1234.56").
func parseLocalAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	clean = strings.TrimPrefix(clean, "$")

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return decimal.NewFromString(clean)
}

// parseCents reads an integer amount in cents.
func parseCents(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, err
	}

	return d.Shift(-2), nil
}

func optionalDecimal(s string, parse func(string) (decimal.Decimal, error)) *decimal.Decimal {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	d, err := parse(s)
	if err != nil {
		return nil
	}

	return &d
}
