package model

import "strings"

// Job posting statuses and employment types.
const (
	PostingStatusOpen         = "open"
	PostingStatusInterviewing = "interviewing"
	PostingStatusClosed       = "closed"

	EmploymentFullTime = "full_time"
	EmploymentPartTime = "part_time"
	EmploymentContract = "contract"
)

// JobPosting is a recruitment row as returned by the HR backend.
type JobPosting struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Department     string `json:"department"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
	Status         string `json:"status"`
	Applicants     int    `json:"applicants"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// JobPostingView is the rendered recruitment row.
type JobPostingView struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Department     string `json:"department"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
	Status         string `json:"status"`
	Applicants     int    `json:"applicants"`
	Posted         string `json:"posted"`
}

// NewJobPostingView maps a backend row into its display shape.
func NewJobPostingView(p JobPosting) JobPostingView {
	return JobPostingView{
		ID:             p.ID,
		Title:          p.Title,
		Department:     p.Department,
		Location:       p.Location,
		EmploymentType: TitleCase(p.EmploymentType),
		Status:         TitleCase(p.Status),
		Applicants:     p.Applicants,
		Posted:         DateOnly(p.CreatedAt),
	}
}

// CreateJobPostingRequest is the payload for opening a posting.
type CreateJobPostingRequest struct {
	Title          string `json:"title"`
	Department     string `json:"department"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
}

// Normalize trims whitespace and defaults the employment type to full time.
func (r *CreateJobPostingRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Department = strings.TrimSpace(r.Department)
	r.Location = strings.TrimSpace(r.Location)
	r.EmploymentType = strings.ToLower(strings.TrimSpace(r.EmploymentType))
	if r.EmploymentType == "" {
		r.EmploymentType = EmploymentFullTime
	}
}

// Issues reports the human-readable validation failures.
func (r CreateJobPostingRequest) Issues() []string {
	var issues []string
	if r.Title == "" {
		issues = append(issues, "Title is required")
	}
	if r.Department == "" {
		issues = append(issues, "Department is required")
	}
	if r.Location == "" {
		issues = append(issues, "Location is required")
	}
	return issues
}
