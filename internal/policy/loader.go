package policy

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	useCaseHeader = regexp.MustCompile(`(?i)usecase|use_case|case`)
	fieldHeader   = regexp.MustCompile(`(?i)field|fieldname|zone|obli`)
)

// ExpandHome replaces a leading ~ with the current user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// LoadBaseList reads the first column of a CSV or XLSX table. The first row
// is a header.
func LoadBaseList(path string) ([]string, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, row := range dataRows(rows) {
		if len(row) == 0 {
			continue
		}
		if v := strings.TrimSpace(row[0]); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// LoadSpecificMap reads a use case to field mapping. Columns are chosen by
// header name, falling back to the first two columns. Use-case keys are
// upper-cased to match the enumeration.
func LoadSpecificMap(path string) (map[string][]string, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	out := map[string][]string{}
	if len(rows) == 0 {
		return out, nil
	}

	header := rows[0]
	ucCol := findColumn(header, useCaseHeader, 0)
	fieldCol := findColumn(header, fieldHeader, 1)
	if fieldCol >= len(header) {
		fieldCol = 0
	}

	for _, row := range dataRows(rows) {
		uc := strings.ToUpper(strings.TrimSpace(cell(row, ucCol)))
		f := strings.TrimSpace(cell(row, fieldCol))
		if uc == "" || f == "" {
			continue
		}
		out[uc] = append(out[uc], f)
	}
	return out, nil
}

// LoadTable builds a Table from the optional external sources. Missing or
// unreadable sources are logged and treated as empty.
func LoadTable(logger *slog.Logger, mandatoryPath, specificPath string) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	t := NewTable()

	if mandatoryPath != "" {
		base, err := LoadBaseList(mandatoryPath)
		if err != nil {
			logger.Warn("policy.table.mandatory_unavailable", "path", mandatoryPath, "err", err)
		} else {
			t.ExternalBase = base
		}
	}
	if specificPath != "" {
		spec, err := LoadSpecificMap(specificPath)
		if err != nil {
			logger.Warn("policy.table.specific_unavailable", "path", specificPath, "err", err)
		} else {
			t.ExternalSpecific = spec
		}
	}

	if d := t.Divergence(); !d.Empty() {
		logger.Warn("policy.table.divergence",
			"external_only_base", d.Base,
			"use_cases", d.UseCases(),
		)
	}
	logger.Info("policy.table.loaded",
		"external_base", len(t.ExternalBase),
		"external_use_cases", len(t.ExternalSpecific),
	)
	return t
}

func readRows(path string) ([][]string, error) {
	p := ExpandHome(path)
	switch strings.ToLower(filepath.Ext(p)) {
	case ".xlsx", ".xlsm":
		return readXLSX(p)
	default:
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readCSV(f)
	}
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// dataRows drops the header and blank rows.
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	out := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		out = append(out, row)
	}
	return out
}

func findColumn(header []string, re *regexp.Regexp, fallback int) int {
	for i, h := range header {
		if re.MatchString(h) {
			return i
		}
	}
	return fallback
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
