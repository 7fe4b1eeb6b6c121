package model

import "strings"

// Benefit plan categories.
const (
	BenefitCategoryHealth     = "health"
	BenefitCategoryDental     = "dental"
	BenefitCategoryVision     = "vision"
	BenefitCategoryRetirement = "retirement"
	BenefitCategoryWellness   = "wellness"
)

// Benefit is a plan row as returned by the HR backend.
type Benefit struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Provider    string  `json:"provider"`
	Category    string  `json:"category"`
	MonthlyCost float64 `json:"monthlyCost"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// BenefitView is the rendered plan row.
type BenefitView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Category    string `json:"category"`
	MonthlyCost string `json:"monthlyCost"`
}

// NewBenefitView maps a backend row into its display shape.
func NewBenefitView(b Benefit) BenefitView {
	return BenefitView{
		ID:          b.ID,
		Name:        b.Name,
		Provider:    b.Provider,
		Category:    TitleCase(b.Category),
		MonthlyCost: Money(b.MonthlyCost),
	}
}

// CreateBenefitRequest is the payload for adding a plan.
type CreateBenefitRequest struct {
	Name        string  `json:"name"`
	Provider    string  `json:"provider"`
	Category    string  `json:"category"`
	MonthlyCost float64 `json:"monthlyCost"`
}

// Normalize trims whitespace and lowercases the category.
func (r *CreateBenefitRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Provider = strings.TrimSpace(r.Provider)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
}

// Issues reports the human-readable validation failures.
func (r CreateBenefitRequest) Issues() []string {
	var issues []string
	if r.Name == "" {
		issues = append(issues, "Plan name is required")
	}
	if r.Provider == "" {
		issues = append(issues, "Provider is required")
	}
	if r.Category == "" {
		issues = append(issues, "Category is required")
	}
	if r.MonthlyCost < 0 {
		issues = append(issues, "Monthly cost must not be negative")
	}
	return issues
}
