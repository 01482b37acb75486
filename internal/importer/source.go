package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type column int

const (
	colCode column = iota
	colName
	colDescription
	colQuantity
	colUnit
	colRate
	colAmount
	colLevel
	colNotes
)

// headerAliases maps normalized header text to a column. Spanish headings
// are common in the spreadsheets this reads.
var headerAliases = map[string]column{
	"code": colCode, "item": colCode, "clave": colCode, "no": colCode, "no.": colCode, "#": colCode,

	"name": colName, "concept": colName, "concepto": colName, "nombre": colName,

	"description": colDescription, "descripcion": colDescription, "descripción": colDescription, "details": colDescription,

	"quantity": colQuantity, "qty": colQuantity, "cantidad": colQuantity, "cant": colQuantity, "cant.": colQuantity,

	"unit": colUnit, "uom": colUnit, "unidad": colUnit, "u.m.": colUnit,

	"rate": colRate, "price": colRate, "unit price": colRate, "unit_price": colRate,
	"precio": colRate, "precio unitario": colRate, "p.u.": colRate,

	"amount": colAmount, "importe": colAmount, "total": colAmount,

	"level": colLevel, "depth": colLevel, "nivel": colLevel,

	"notes": colNotes, "note": colNotes, "notas": colNotes, "observaciones": colNotes,
}

// notesSeparator splits a single notes cell into entries.
const notesSeparator = "|"

// LoadRows reads a row source, choosing the decoder from the file extension.
func LoadRows(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ReadCSV(f)
	case ".json":
		return ReadJSON(f)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported file type %q (expected .csv, .json or .xlsx)", ext)
	}
}

// ReadCSV decodes a header row followed by data rows.
func ReadCSV(r io.Reader) (*File, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	rows, err := rowsFromTable(records)
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return &File{Rows: rows}, nil
}

// ReadXLSX decodes the first worksheet of a workbook.
func ReadXLSX(r io.Reader) (*File, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	rows, err := rowsFromTable(records)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheets[0], err)
	}
	return &File{Rows: rows}, nil
}

// ReadJSON accepts a bare array of rows or an object with "estimate" and
// "rows" keys.
func ReadJSON(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("parse json: empty document")
	}

	var file File
	if data[0] == '[' {
		if err := json.Unmarshal(data, &file.Rows); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	} else if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	for i := range file.Rows {
		file.Rows[i].Line = i + 1
	}
	return &file, nil
}

func rowsFromTable(records [][]string) ([]RawRow, error) {
	headerAt := -1
	for i, rec := range records {
		if !blankRecord(rec) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, nil
	}

	index := make(map[column]int)
	for j, h := range records[headerAt] {
		key := normalizeHeader(h)
		if col, ok := headerAliases[key]; ok {
			if _, dup := index[col]; !dup {
				index[col] = j
			}
		}
	}
	if _, ok := index[colName]; !ok {
		if _, ok := index[colCode]; !ok {
			return nil, fmt.Errorf("header row %d has neither a name nor a code column", headerAt+1)
		}
	}

	var rows []RawRow
	for i := headerAt + 1; i < len(records); i++ {
		rec := records[i]
		if blankRecord(rec) {
			continue
		}
		get := func(col column) string {
			j, ok := index[col]
			if !ok || j >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[j])
		}
		row := RawRow{
			Line:        i + 1,
			Code:        get(colCode),
			Name:        get(colName),
			Description: get(colDescription),
			Unit:        get(colUnit),
			Quantity:    TextCell(get(colQuantity)),
			Rate:        TextCell(get(colRate)),
			Amount:      TextCell(get(colAmount)),
			Level:       TextCell(get(colLevel)),
		}
		if notes := get(colNotes); notes != "" {
			for _, n := range strings.Split(notes, notesSeparator) {
				if n = strings.TrimSpace(n); n != "" {
					row.Notes = append(row.Notes, n)
				}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), " ")
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
