package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/opsdeskhq/opsdesk/internal/domain/model"
	apperrors "github.com/opsdeskhq/opsdesk/internal/errors"
)

// maxRosterRows bounds legacy .xls reads, which require a cap up front.
const maxRosterRows = 100000

// ParseRoster reads employee create requests from an .xlsx or .xls
// workbook. The first row must be a header naming at least the first
// name, last name and email columns; department, role and start date
// are optional.
func ParseRoster(r io.Reader, filename string) ([]*model.CreateEmployeeRequest, error) {
	rows, err := readSheetRows(r, filename)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", filepath.Base(filename), err)
	}

	header := rows[0]
	firstIdx := headerIndex(header, "first name", "firstname", "first")
	lastIdx := headerIndex(header, "last name", "lastname", "last", "surname")
	emailIdx := headerIndex(header, "email", "email address", "work email")
	deptIdx := headerIndex(header, "department", "dept", "team")
	roleIdx := headerIndex(header, "role", "title", "job title", "position")
	startIdx := headerIndex(header, "start date", "startdate", "hire date")

	switch {
	case firstIdx < 0:
		return nil, apperrors.Validationf("missing required column: first name")
	case lastIdx < 0:
		return nil, apperrors.Validationf("missing required column: last name")
	case emailIdx < 0:
		return nil, apperrors.Validationf("missing required column: email")
	}

	var reqs []*model.CreateEmployeeRequest
	for _, row := range rows[1:] {
		req := &model.CreateEmployeeRequest{
			FirstName:  cell(row, firstIdx),
			LastName:   cell(row, lastIdx),
			Email:      cell(row, emailIdx),
			Department: cell(row, deptIdx),
			Role:       cell(row, roleIdx),
			StartDate:  normalizeStartDate(cell(row, startIdx)),
		}
		// Fully blank padding rows are not roster entries.
		if req.FirstName == "" && req.LastName == "" && req.Email == "" {
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func readSheetRows(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if workbook.NumSheets() == 0 {
			return nil, errors.New("no worksheet found")
		}
		rows := workbook.ReadAllCells(maxRosterRows)
		if len(rows) == 0 {
			return nil, errors.New("worksheet is empty")
		}
		return rows, nil
	default:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()

		sheet := file.GetSheetName(0)
		if sheet == "" {
			return nil, errors.New("no worksheet found")
		}
		rows, err := file.GetRows(sheet)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, errors.New("worksheet is empty")
		}
		return rows, nil
	}
}

func headerIndex(header []string, names ...string) int {
	for idx, text := range header {
		normalized := strings.ToLower(strings.TrimSpace(text))
		for _, name := range names {
			if normalized == name {
				return idx
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeStartDate renders spreadsheet date cells as YYYY-MM-DD. Excel
// stores dates as day serials; text cells cover the common layouts. A
// value matching nothing passes through untouched.
func normalizeStartDate(value string) string {
	if value == "" {
		return ""
	}
	// Serial range keeps plain years from being read as Excel day serials.
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= 20000 && serial <= 80000 {
		if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return parsed.Format(time.DateOnly)
		}
	}
	layouts := []string{time.DateOnly, "1/2/2006", "01/02/2006", "2006/01/02", "2 Jan 2006", "Jan 2, 2006"}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(time.DateOnly)
		}
	}
	return value
}

// EmployeeCreator submits one create request and returns the mapped row.
type EmployeeCreator func(ctx context.Context, req *model.CreateEmployeeRequest) (model.EmployeeView, error)

// RosterImporterOptions groups dependencies for RosterImporter.
type RosterImporterOptions struct {
	Create EmployeeCreator // Required: usually the employees section's Create
	Logger *slog.Logger
}

// RosterImporter bulk-creates directory entries from parsed roster rows.
type RosterImporter struct {
	create EmployeeCreator
	logger *slog.Logger
}

// NewRosterImporter constructs a roster importer.
func NewRosterImporter(opts RosterImporterOptions) (*RosterImporter, error) {
	if opts.Create == nil {
		return nil, errors.New("employee creator is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterImporter{create: opts.Create, logger: logger}, nil
}

// RosterSkip records a roster row that failed validation.
type RosterSkip struct {
	Row    int // 1-based data row number, header excluded
	Issues []string
}

// RosterReport summarizes an import run.
type RosterReport struct {
	Created int
	Skipped []RosterSkip
}

// Import submits one create call per request. Rows failing validation are
// recorded as skips and the run continues; a backend failure stops the
// run and returns the partial report alongside the error.
func (ri *RosterImporter) Import(ctx context.Context, reqs []*model.CreateEmployeeRequest) (RosterReport, error) {
	var report RosterReport
	for i, req := range reqs {
		view, err := ri.create(ctx, req)
		if err != nil {
			if apperrors.IsValidation(err) {
				issues := apperrors.GetIssues(err)
				report.Skipped = append(report.Skipped, RosterSkip{Row: i + 1, Issues: issues})
				ri.logger.WarnContext(ctx, "[roster][import] row skipped",
					"row", i+1, "issues", strings.Join(issues, "; "))
				continue
			}
			return report, fmt.Errorf("import row %d: %w", i+1, err)
		}
		report.Created++
		ri.logger.InfoContext(ctx, "[roster][import] employee created", "row", i+1, "id", view.ID)
	}
	return report, nil
}
