package model

import "strings"

// Ticket priorities and statuses.
const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"

	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// Ticket is a helpdesk row as returned by the IT backend.
type Ticket struct {
	ID        int    `json:"id"`
	Subject   string `json:"subject"`
	Requester string `json:"requester"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// TicketView is the rendered helpdesk row.
type TicketView struct {
	ID        int    `json:"id"`
	Subject   string `json:"subject"`
	Requester string `json:"requester"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
	Opened    string `json:"opened"`
}

// NewTicketView maps a backend row into its display shape.
func NewTicketView(t Ticket) TicketView {
	return TicketView{
		ID:        t.ID,
		Subject:   t.Subject,
		Requester: t.Requester,
		Priority:  TitleCase(t.Priority),
		Status:    TitleCase(t.Status),
		Opened:    DateOnly(t.CreatedAt),
	}
}

// CreateTicketRequest is the payload for opening a helpdesk ticket.
type CreateTicketRequest struct {
	Subject   string `json:"subject"`
	Requester string `json:"requester"`
	Priority  string `json:"priority"`
}

// Normalize trims whitespace and defaults the priority to medium.
func (r *CreateTicketRequest) Normalize() {
	r.Subject = strings.TrimSpace(r.Subject)
	r.Requester = strings.TrimSpace(r.Requester)
	r.Priority = strings.ToLower(strings.TrimSpace(r.Priority))
	if r.Priority == "" {
		r.Priority = TicketPriorityMedium
	}
}

// Issues reports the human-readable validation failures.
func (r CreateTicketRequest) Issues() []string {
	var issues []string
	if r.Subject == "" {
		issues = append(issues, "Subject is required")
	}
	if r.Requester == "" {
		issues = append(issues, "Requester is required")
	}
	return issues
}
