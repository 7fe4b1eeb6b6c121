package model

import (
	"fmt"
	"strings"
)

// Absence kinds and statuses.
const (
	AbsenceKindVacation = "vacation"
	AbsenceKindSick     = "sick"
	AbsenceKindPersonal = "personal"
	AbsenceKindParental = "parental"

	AbsenceStatusPending  = "pending"
	AbsenceStatusApproved = "approved"
	AbsenceStatusDeclined = "declined"
)

// Absence is a leave-request row as returned by the HR backend.
type Absence struct {
	ID           int    `json:"id"`
	EmployeeName string `json:"employeeName"`
	Kind         string `json:"kind"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// AbsenceView is the rendered leave-request row.
type AbsenceView struct {
	ID           int    `json:"id"`
	EmployeeName string `json:"employeeName"`
	Kind         string `json:"kind"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Days         string `json:"days"`
	Status       string `json:"status"`
}

// NewAbsenceView maps a backend row into its display shape. The day count
// is inclusive of both endpoints, so a single-day absence reads "1 day".
func NewAbsenceView(a Absence) AbsenceView {
	days := InclusiveDays(a.StartDate, a.EndDate)
	label := fmt.Sprintf("%d days", days)
	if days == 1 {
		label = "1 day"
	}
	return AbsenceView{
		ID:           a.ID,
		EmployeeName: a.EmployeeName,
		Kind:         TitleCase(a.Kind),
		StartDate:    DateOnly(a.StartDate),
		EndDate:      DateOnly(a.EndDate),
		Days:         label,
		Status:       TitleCase(a.Status),
	}
}

// CreateAbsenceRequest is the payload for filing a leave request.
type CreateAbsenceRequest struct {
	EmployeeName string `json:"employeeName"`
	Kind         string `json:"kind"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

// Normalize trims whitespace and defaults the kind to vacation.
func (r *CreateAbsenceRequest) Normalize() {
	r.EmployeeName = strings.TrimSpace(r.EmployeeName)
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
	if r.Kind == "" {
		r.Kind = AbsenceKindVacation
	}
}

// Issues reports the human-readable validation failures.
func (r CreateAbsenceRequest) Issues() []string {
	var issues []string
	if r.EmployeeName == "" {
		issues = append(issues, "Employee name is required")
	}
	if r.StartDate == "" {
		issues = append(issues, "Start date is required")
	}
	if r.EndDate == "" {
		issues = append(issues, "End date is required")
	}
	return issues
}
