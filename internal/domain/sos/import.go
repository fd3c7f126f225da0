package sos

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

// ImportRowError describes one rejected row of a bulk import.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a bulk import. Rows that fail validation are
// reported and skipped; valid rows are still created.
type ImportResult struct {
	Imported int              `json:"imported"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// importColumns is the expected header. Notes is optional.
var importColumns = []string{"patient_name", "blood_group", "units", "urgency", "notes"}

// Importer creates SOS requests in bulk from CSV or XLSX uploads, typically
// a hospital's triage export.
type Importer struct {
	svc *Service
}

func NewImporter(svc *Service) *Importer { return &Importer{svc: svc} }

func parseHeader(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range importColumns[:4] {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q in header", col)
		}
	}
	return idx, nil
}

func cell(record []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (imp *Importer) importRow(ctx context.Context, actorID string, record []string, idx map[string]int) error {
	units, err := strconv.Atoi(cell(record, idx, "units"))
	if err != nil {
		return invalid("units", "must be an integer")
	}
	r := &SosRequest{
		PatientName: cell(record, idx, "patient_name"),
		BloodGroup:  blood.Group(strings.ToUpper(cell(record, idx, "blood_group"))),
		Units:       units,
		Urgency:     Urgency(strings.ToLower(cell(record, idx, "urgency"))),
		Notes:       cell(record, idx, "notes"),
	}
	return imp.svc.Create(ctx, actorID, r)
}

// ImportCSV reads comma-separated rows with a header line.
func (imp *Importer) ImportCSV(ctx context.Context, actorID string, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: row, Reason: err.Error()})
			continue
		}
		if err := imp.importRow(ctx, actorID, record, idx); err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: row, Reason: err.Error()})
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportXLSX reads the first sheet of an Excel workbook with a header row.
func (imp *Importer) ImportXLSX(ctx context.Context, actorID string, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	idx, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, record := range rows[1:] {
		if err := imp.importRow(ctx, actorID, record, idx); err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: i + 2, Reason: err.Error()})
			continue
		}
		result.Imported++
	}
	return result, nil
}
