// Package export renders section view rows into spreadsheet workbooks for
// offline review and retention snapshots.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"

	"github.com/opsdeskhq/opsdesk/internal/domain/model"
)

// Sheet is one worksheet: a header row followed by data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// WriteWorkbook renders the sheets into a single .xlsx workbook.
func WriteWorkbook(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return errors.New("no sheets to export")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sheet := range sheets {
		if sheet.Name == "" {
			return fmt.Errorf("sheet %d has no name", i)
		}
		if i == 0 {
			// New workbooks are seeded with "Sheet1"; rename it instead
			// of leaving an empty first tab.
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("name sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteWorkbookXZ writes the workbook xz-compressed (an .xlsx.xz stream).
func WriteWorkbookXZ(w io.Writer, sheets []Sheet) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("init xz writer: %w", err)
	}
	if err := WriteWorkbook(xw, sheets); err != nil {
		_ = xw.Close()
		return err
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("finish xz stream: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	if len(sheet.Headers) > 0 {
		if err := setRow(f, sheet.Name, 1, sheet.Headers); err != nil {
			return fmt.Errorf("write %s header: %w", sheet.Name, err)
		}
	}
	for i, row := range sheet.Rows {
		if err := setRow(f, sheet.Name, i+2, row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet.Name, i+1, err)
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	ref, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, ref, &cells)
}

// EmployeeSheet renders employee view rows.
func EmployeeSheet(rows []model.EmployeeView) Sheet {
	s := Sheet{
		Name:    "Employees",
		Headers: []string{"ID", "Name", "Email", "Department", "Role", "Status", "Start Date"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(r.ID), r.Name, r.Email, r.Department, r.Role, r.Status, r.StartDate,
		})
	}
	return s
}

// BenefitSheet renders benefit view rows.
func BenefitSheet(rows []model.BenefitView) Sheet {
	s := Sheet{
		Name:    "Benefits",
		Headers: []string{"ID", "Name", "Provider", "Category", "Monthly Cost"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(r.ID), r.Name, r.Provider, r.Category, r.MonthlyCost,
		})
	}
	return s
}

// OnboardingSheet renders onboarding view rows.
func OnboardingSheet(rows []model.OnboardingView) Sheet {
	s := Sheet{
		Name:    "Onboarding",
		Headers: []string{"ID", "Employee", "Mentor", "Status", "Start Date", "Progress"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(r.ID), r.EmployeeName, r.Mentor, r.Status, r.StartDate, r.Progress,
		})
	}
	return s
}

// RecruitmentSheet renders job posting view rows.
func RecruitmentSheet(rows []model.JobPostingView) Sheet {
	s := Sheet{
		Name:    "Recruitment",
		Headers: []string{"ID", "Title", "Department", "Location", "Type", "Status", "Applicants", "Posted"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(r.ID), r.Title, r.Department, r.Location, r.EmploymentType,
			r.Status, strconv.Itoa(r.Applicants), r.Posted,
		})
	}
	return s
}

// AbsenceSheet renders absence view rows.
func AbsenceSheet(rows []model.AbsenceView) Sheet {
	s := Sheet{
		Name:    "Absences",
		Headers: []string{"ID", "Employee", "Kind", "Start Date", "End Date", "Days", "Status"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(r.ID), r.EmployeeName, r.Kind, r.StartDate, r.EndDate, r.Days, r.Status,
		})
	}
	return s
}

// DeviceSheet renders device view rows.
func DeviceSheet(rows []model.DeviceView) Sheet {
	s := Sheet{
		Name:    "Devices",
		Headers: []string{"ID", "Name", "Type", "Assigned To", "Status", "Purchased"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(r.ID), r.Name, r.DeviceType, r.AssignedTo, r.Status, r.PurchasedAt,
		})
	}
	return s
}

// TicketSheet renders ticket view rows.
func TicketSheet(rows []model.TicketView) Sheet {
	s := Sheet{
		Name:    "Tickets",
		Headers: []string{"ID", "Subject", "Requester", "Priority", "Status", "Opened"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(r.ID), r.Subject, r.Requester, r.Priority, r.Status, r.Opened,
		})
	}
	return s
}
