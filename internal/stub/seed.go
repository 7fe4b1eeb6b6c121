package stub

import (
	"fmt"

	"github.com/opsdeskhq/opsdesk/internal/domain/model"
)

// Demo login for seeded stubs. Hardcoding the password is fine here: the
// stub only ever serves localhost development.
const (
	SeedEmail    = "demo@opsdesk.io"
	SeedPassword = "opsdesk-demo"
)

var seedEmployees = []model.Employee{
	{FirstName: "Maya", LastName: "Okafor", Email: "maya.okafor@opsdesk.io", Department: "Engineering", Role: "Staff Engineer", StartDate: "2021-04-12"},
	{FirstName: "Daniel", LastName: "Reyes", Email: "daniel.reyes@opsdesk.io", Department: "Engineering", Role: "Backend Engineer", StartDate: "2022-09-01"},
	{FirstName: "Priya", LastName: "Shah", Email: "priya.shah@opsdesk.io", Department: "People", Role: "HR Generalist", StartDate: "2020-01-20"},
	{FirstName: "Tomasz", LastName: "Kowalski", Email: "tomasz.kowalski@opsdesk.io", Department: "IT", Role: "Support Specialist", StartDate: "2023-02-13", Status: model.EmployeeStatusOnLeave},
	{FirstName: "Elena", LastName: "Petrova", Email: "elena.petrova@opsdesk.io", Department: "Finance", Role: "Payroll Analyst", StartDate: "2019-11-04"},
}

var seedBenefits = []model.Benefit{
	{Name: "Core Health", Provider: "Aurora Health", Category: model.BenefitCategoryHealth, MonthlyCost: 412.50},
	{Name: "Dental Plus", Provider: "BrightSmile", Category: model.BenefitCategoryDental, MonthlyCost: 38},
	{Name: "VisionCare", Provider: "ClearView", Category: model.BenefitCategoryVision, MonthlyCost: 14.25},
	{Name: "401k Match", Provider: "Summit Retirement", Category: model.BenefitCategoryRetirement, MonthlyCost: 0},
}

var seedOnboarding = []model.Onboarding{
	{EmployeeName: "Daniel Reyes", Mentor: "Maya Okafor", Status: model.OnboardingStatusCompleted, StartDate: "2022-09-01", TasksDone: 12, TasksTotal: 12},
	{EmployeeName: "Tomasz Kowalski", Mentor: "Priya Shah", Status: model.OnboardingStatusInProgress, StartDate: "2023-02-13", TasksDone: 7, TasksTotal: 12},
	{EmployeeName: "Noor Haddad", Mentor: "Daniel Reyes", Status: model.OnboardingStatusNotStarted, StartDate: "2026-09-07", TasksDone: 0, TasksTotal: 12},
}

var seedPostings = []model.JobPosting{
	{Title: "Senior Platform Engineer", Department: "Engineering", Location: "Remote (EU)", EmploymentType: model.EmploymentFullTime, Status: model.PostingStatusInterviewing, Applicants: 23},
	{Title: "IT Support Specialist", Department: "IT", Location: "Berlin", EmploymentType: model.EmploymentFullTime, Status: model.PostingStatusOpen, Applicants: 41},
	{Title: "Payroll Contractor", Department: "Finance", Location: "Remote", EmploymentType: model.EmploymentContract, Status: model.PostingStatusClosed, Applicants: 9},
}

var seedAbsences = []model.Absence{
	{EmployeeName: "Maya Okafor", Kind: model.AbsenceKindVacation, StartDate: "2026-08-31", EndDate: "2026-09-11", Status: model.AbsenceStatusApproved},
	{EmployeeName: "Tomasz Kowalski", Kind: model.AbsenceKindParental, StartDate: "2026-08-01", EndDate: "2026-11-01", Status: model.AbsenceStatusApproved},
	{EmployeeName: "Elena Petrova", Kind: model.AbsenceKindSick, StartDate: "2026-08-24", EndDate: "2026-08-26", Status: model.AbsenceStatusPending},
}

var seedDevices = []model.Device{
	{Name: "MBP-1402", DeviceType: "laptop", AssignedTo: "Maya Okafor", Status: model.DeviceStatusInUse, PurchasedAt: "2024-05-02"},
	{Name: "MBP-1788", DeviceType: "laptop", AssignedTo: "Daniel Reyes", Status: model.DeviceStatusInUse, PurchasedAt: "2025-01-15"},
	{Name: "TP-0931", DeviceType: "laptop", AssignedTo: "Priya Shah", Status: model.DeviceStatusInUse, PurchasedAt: "2023-08-21"},
	{Name: "DELL-2044", DeviceType: "monitor", Status: model.DeviceStatusInStorage, PurchasedAt: "2024-11-30"},
	{Name: "MBP-1213", DeviceType: "laptop", Status: model.DeviceStatusInRepair, PurchasedAt: "2022-03-10"},
	{Name: "TP-0457", DeviceType: "laptop", Status: model.DeviceStatusRetired, PurchasedAt: "2019-06-17"},
}

var seedTickets = []model.Ticket{
	{Subject: "VPN drops every 20 minutes", Requester: "Elena Petrova", Priority: model.TicketPriorityHigh, Status: model.TicketStatusInProgress},
	{Subject: "Laptop battery swollen", Requester: "Maya Okafor", Priority: model.TicketPriorityUrgent, Status: model.TicketStatusOpen},
	{Subject: "Request second monitor", Requester: "Daniel Reyes", Priority: model.TicketPriorityLow, Status: model.TicketStatusOpen},
	{Subject: "Printer offline on floor 3", Requester: "Priya Shah", Priority: model.TicketPriorityMedium, Status: model.TicketStatusResolved},
}

// seed registers the demo account and loads the demo rows through the usual
// stamping path so ids and timestamps look like organically created data.
func (s *Server) seed() error {
	if _, err := s.accounts.Register(SeedEmail, SeedPassword); err != nil {
		return fmt.Errorf("register %s: %w", SeedEmail, err)
	}

	now := s.timestamp()
	for _, row := range seedEmployees {
		s.employees.Add(row, now)
	}
	for _, row := range seedBenefits {
		s.benefits.Add(row, now)
	}
	for _, row := range seedOnboarding {
		s.onboarding.Add(row, now)
	}
	for _, row := range seedPostings {
		s.postings.Add(row, now)
	}
	for _, row := range seedAbsences {
		s.absences.Add(row, now)
	}
	for _, row := range seedDevices {
		s.devices.Add(row, now)
	}
	for _, row := range seedTickets {
		s.tickets.Add(row, now)
	}

	s.logger.Info("[stub][seed] demo data loaded",
		"employees", s.employees.Count(),
		"devices", s.devices.Count(),
		"tickets", s.tickets.Count(),
		"account", SeedEmail,
	)
	return nil
}
