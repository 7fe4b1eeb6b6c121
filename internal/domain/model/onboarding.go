package model

import (
	"fmt"
	"strings"
)

// Onboarding flow statuses.
const (
	OnboardingStatusNotStarted = "not_started"
	OnboardingStatusInProgress = "in_progress"
	OnboardingStatusCompleted  = "completed"
)

// Onboarding is a new-hire flow row as returned by the HR backend.
type Onboarding struct {
	ID           int    `json:"id"`
	EmployeeName string `json:"employeeName"`
	Mentor       string `json:"mentor"`
	Status       string `json:"status"`
	StartDate    string `json:"startDate"`
	TasksDone    int    `json:"tasksDone"`
	TasksTotal   int    `json:"tasksTotal"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// OnboardingView is the rendered flow row.
type OnboardingView struct {
	ID           int    `json:"id"`
	EmployeeName string `json:"employeeName"`
	Mentor       string `json:"mentor"`
	Status       string `json:"status"`
	StartDate    string `json:"startDate"`
	Progress     string `json:"progress"`
}

// NewOnboardingView maps a backend row into its display shape.
func NewOnboardingView(o Onboarding) OnboardingView {
	return OnboardingView{
		ID:           o.ID,
		EmployeeName: o.EmployeeName,
		Mentor:       o.Mentor,
		Status:       TitleCase(o.Status),
		StartDate:    DateOnly(o.StartDate),
		Progress:     fmt.Sprintf("%d/%d", o.TasksDone, o.TasksTotal),
	}
}

// CreateOnboardingRequest is the payload for starting a flow.
type CreateOnboardingRequest struct {
	EmployeeName string `json:"employeeName"`
	Mentor       string `json:"mentor"`
	StartDate    string `json:"startDate,omitempty"`
}

// Normalize trims whitespace from every field.
func (r *CreateOnboardingRequest) Normalize() {
	r.EmployeeName = strings.TrimSpace(r.EmployeeName)
	r.Mentor = strings.TrimSpace(r.Mentor)
	r.StartDate = strings.TrimSpace(r.StartDate)
}

// Issues reports the human-readable validation failures.
func (r CreateOnboardingRequest) Issues() []string {
	var issues []string
	if r.EmployeeName == "" {
		issues = append(issues, "Employee name is required")
	}
	if r.Mentor == "" {
		issues = append(issues, "Mentor is required")
	}
	return issues
}
