package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEmployeeView(t *testing.T) {
	v := NewEmployeeView(Employee{
		ID:         7,
		FirstName:  "Maya",
		LastName:   "Reyes",
		Email:      "maya.reyes@example.com",
		Department: "Engineering",
		Role:       "SRE",
		Status:     EmployeeStatusOnLeave,
		StartDate:  "2023-06-12T00:00:00Z",
	})

	assert.Equal(t, 7, v.ID)
	assert.Equal(t, "Maya Reyes", v.Name)
	assert.Equal(t, "On Leave", v.Status)
	assert.Equal(t, "2023-06-12", v.StartDate)
}

func TestCreateEmployeeRequest_Issues(t *testing.T) {
	r := CreateEmployeeRequest{FirstName: "  Maya  ", Email: "maya@example.com"}
	r.Normalize()

	issues := r.Issues()
	assert.Contains(t, issues, "Last name is required")
	assert.Contains(t, issues, "Department is required")
	assert.NotContains(t, issues, "First name is required")

	r.LastName = "Reyes"
	r.Department = "Engineering"
	assert.Empty(t, r.Issues())
	assert.Equal(t, "Maya", r.FirstName)
}
