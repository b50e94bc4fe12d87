package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	enc "github.com/MrJamesThe3rd/cruce/internal/encoding"
)

// table is a decoded export with the header row included.
type table struct {
	rows    [][]string
	charset string
}

func readTable(filename string, r io.Reader) (*table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return readSpreadsheet(r)
	default:
		return readCSV(r)
	}
}

// readSpreadsheet reads the first sheet. Cells come back raw so numbers keep
// full precision and dates arrive as serial numbers.
func readSpreadsheet(r io.Reader) (*table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return &table{rows: rows, charset: "xlsx"}, nil
}

func readCSV(r io.Reader) (*table, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	first, err := br.Peek(2048)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(first)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return &table{rows: rows, charset: charset}, nil
}

// sniffDelimiter picks the most frequent candidate separator in the sample.
// Semicolons win ties since the back offices export with decimal commas.
func sniffDelimiter(sample []byte) rune {
	best, bestCount := ';', bytes.Count(sample, []byte(";"))

	for _, c := range []rune{',', '\t'} {
		if n := bytes.Count(sample, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}

	return best
}
