package model

import "strings"

// Employee statuses as the directory service reports them.
const (
	EmployeeStatusActive      = "active"
	EmployeeStatusOnLeave     = "on_leave"
	EmployeeStatusOffboarding = "offboarding"
)

// Employee is a directory row as returned by the HR backend.
type Employee struct {
	ID         int    `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	StartDate  string `json:"startDate"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// EmployeeView is the rendered directory row.
type EmployeeView struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	StartDate  string `json:"startDate"`
}

// NewEmployeeView maps a backend row into its display shape.
func NewEmployeeView(e Employee) EmployeeView {
	return EmployeeView{
		ID:         e.ID,
		Name:       FullName(e.FirstName, e.LastName),
		Email:      e.Email,
		Department: e.Department,
		Role:       e.Role,
		Status:     TitleCase(e.Status),
		StartDate:  DateOnly(e.StartDate),
	}
}

// CreateEmployeeRequest is the payload for adding a directory entry.
type CreateEmployeeRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
	StartDate  string `json:"startDate,omitempty"`
}

// Normalize trims whitespace from every field and lowercases the email.
func (r *CreateEmployeeRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Department = strings.TrimSpace(r.Department)
	r.Role = strings.TrimSpace(r.Role)
	r.StartDate = strings.TrimSpace(r.StartDate)
}

// Issues reports the human-readable validation failures, empty when the
// request is submittable.
func (r CreateEmployeeRequest) Issues() []string {
	var issues []string
	if r.FirstName == "" {
		issues = append(issues, "First name is required")
	}
	if r.LastName == "" {
		issues = append(issues, "Last name is required")
	}
	if r.Email == "" {
		issues = append(issues, "Email is required")
	}
	if r.Department == "" {
		issues = append(issues, "Department is required")
	}
	return issues
}
