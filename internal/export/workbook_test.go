package export

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"github.com/xuri/excelize/v2"

	"github.com/opsdeskhq/opsdesk/internal/domain/model"
)

func TestWriteWorkbook_SheetLayout(t *testing.T) {
	sheets := []Sheet{
		EmployeeSheet([]model.EmployeeView{{
			ID: 1, Name: "Ada Park", Email: "ada.park@opsdesk.io",
			Department: "Engineering", Role: "SRE", Status: "Active", StartDate: "2024-03-01",
		}}),
		TicketSheet([]model.TicketView{{
			ID: 7, Subject: "VPN down", Requester: "Ada Park",
			Priority: "High", Status: "Open", Opened: "2024-05-01",
		}}),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sheets))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Employees", "Tickets"}, f.GetSheetList())

	rows, err := f.GetRows("Employees")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ID", "Name", "Email", "Department", "Role", "Status", "Start Date"}, rows[0])
	assert.Equal(t, []string{"1", "Ada Park", "ada.park@opsdesk.io", "Engineering", "SRE", "Active", "2024-03-01"}, rows[1])

	ticketRows, err := f.GetRows("Tickets")
	require.NoError(t, err)
	require.Len(t, ticketRows, 2)
	assert.Equal(t, "VPN down", ticketRows[1][1])
}

func TestWriteWorkbook_RequiresSheets(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteWorkbook(&buf, nil))
}

func TestWriteWorkbook_RequiresSheetNames(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWorkbook(&buf, []Sheet{{Headers: []string{"ID"}}})
	assert.Error(t, err)
}

func TestWriteWorkbookXZ_RoundTrip(t *testing.T) {
	sheets := []Sheet{DeviceSheet([]model.DeviceView{{
		ID: 3, Name: "mbp-14", DeviceType: "Laptop", AssignedTo: "-",
		Status: "In Storage", PurchasedAt: "2023-11-12",
	}})}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbookXZ(&buf, sheets))

	xr, err := xz.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	raw, err := io.ReadAll(xr)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Devices")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "mbp-14", rows[1][1])
}

func TestSheetBuilders_ColumnCounts(t *testing.T) {
	tests := []struct {
		name  string
		sheet Sheet
	}{
		{"benefits", BenefitSheet([]model.BenefitView{{ID: 1, Name: "Dental Plus", Provider: "Delta", Category: "Dental", MonthlyCost: "$42.50"}})},
		{"onboarding", OnboardingSheet([]model.OnboardingView{{ID: 2, EmployeeName: "Ada Park", Mentor: "Lee Kim", Status: "In Progress", StartDate: "2024-04-01", Progress: "3/7"}})},
		{"recruitment", RecruitmentSheet([]model.JobPostingView{{ID: 3, Title: "SRE", Department: "Engineering", Location: "Remote", EmploymentType: "Full Time", Status: "Open", Applicants: 12, Posted: "2024-02-10"}})},
		{"absences", AbsenceSheet([]model.AbsenceView{{ID: 4, EmployeeName: "Ada Park", Kind: "Vacation", StartDate: "2024-06-01", EndDate: "2024-06-05", Days: "5 days", Status: "Approved"}})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Len(t, tc.sheet.Rows, 1)
			assert.Len(t, tc.sheet.Rows[0], len(tc.sheet.Headers))
		})
	}
}
