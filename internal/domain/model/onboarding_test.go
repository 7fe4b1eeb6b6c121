package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOnboardingView(t *testing.T) {
	v := NewOnboardingView(Onboarding{
		ID:           2,
		EmployeeName: "Ash Lee",
		Mentor:       "Maya Reyes",
		Status:       OnboardingStatusInProgress,
		StartDate:    "2024-04-01T08:00:00Z",
		TasksDone:    3,
		TasksTotal:   8,
	})

	assert.Equal(t, "In Progress", v.Status)
	assert.Equal(t, "3/8", v.Progress)
	assert.Equal(t, "2024-04-01", v.StartDate)
}

func TestCreateOnboardingRequest_Issues(t *testing.T) {
	r := CreateOnboardingRequest{Mentor: " "}
	r.Normalize()

	issues := r.Issues()
	assert.Contains(t, issues, "Employee name is required")
	assert.Contains(t, issues, "Mentor is required")
}
