package stub

import (
	"errors"
	"net/http"
	"strings"

	"github.com/opsdeskhq/opsdesk/internal/domain/model"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// loginRequest skips the password policy: existing accounts may predate it,
// and a wrong-length guess should read as bad credentials, not a 400.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type grantDocument struct {
	Token string       `json:"token"`
	User  userDocument `json:"user"`
}

type userDocument struct {
	Email string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, errorParams{status: http.StatusBadRequest, code: "validation_failed", err: err})
		return
	}

	acct, err := s.accounts.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errAccountExists) {
			writeError(w, errorParams{status: http.StatusConflict, code: "account_exists", err: err})
			return
		}
		writeError(w, errorParams{status: http.StatusInternalServerError, code: "register_failed", err: err})
		return
	}

	s.logger.Info("[stub][register] account created", "email", acct.Email)
	writeData(w, http.StatusCreated, acct)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, errorParams{status: http.StatusBadRequest, code: "validation_failed", err: err})
		return
	}

	acct, err := s.accounts.Verify(req.Email, req.Password)
	if err != nil {
		writeError(w, errorParams{status: http.StatusUnauthorized, code: "invalid_credentials", err: err})
		return
	}

	token, err := s.tokens.Mint(acct.Email)
	if err != nil {
		writeError(w, errorParams{status: http.StatusInternalServerError, code: "token_mint_failed", err: err})
		return
	}

	writeData(w, http.StatusOK, grantDocument{Token: token, User: userDocument{Email: acct.Email}})
}

// listOf serves a GET collection endpoint straight from a store.
func listOf[T any](store *memStore[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, http.StatusOK, store.List())
	}
}

// createOf decodes and validates a payload, builds the row, and stores it
// under a fresh id with server-set timestamps.
func createOf[T any, P any](s *Server, store *memStore[T], build func(P) T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload P
		if !decodeJSON(w, r, &payload) {
			return
		}
		if err := s.validate.Struct(payload); err != nil {
			writeError(w, errorParams{status: http.StatusBadRequest, code: "validation_failed", err: err})
			return
		}
		writeData(w, http.StatusCreated, store.Add(build(payload), s.timestamp()))
	}
}

// Create payloads mirror what the dashboard client sends. Validation here is
// the backend's own line of defence; the client performs its friendlier
// checks before a request ever reaches this point.

type employeePayload struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
	Role       string `json:"role"`
	StartDate  string `json:"startDate"`
}

type benefitPayload struct {
	Name        string  `json:"name" validate:"required"`
	Provider    string  `json:"provider" validate:"required"`
	Category    string  `json:"category" validate:"required,oneof=health dental vision retirement wellness"`
	MonthlyCost float64 `json:"monthlyCost" validate:"gte=0"`
}

type onboardingPayload struct {
	EmployeeName string `json:"employeeName" validate:"required"`
	Mentor       string `json:"mentor" validate:"required"`
	StartDate    string `json:"startDate"`
}

type postingPayload struct {
	Title          string `json:"title" validate:"required"`
	Department     string `json:"department" validate:"required"`
	Location       string `json:"location" validate:"required"`
	EmploymentType string `json:"employmentType" validate:"required,oneof=full_time part_time contract"`
}

type absencePayload struct {
	EmployeeName string `json:"employeeName" validate:"required"`
	Kind         string `json:"kind" validate:"required,oneof=vacation sick personal parental"`
	StartDate    string `json:"startDate" validate:"required"`
	EndDate      string `json:"endDate" validate:"required"`
}

type ticketPayload struct {
	Subject   string `json:"subject" validate:"required"`
	Requester string `json:"requester" validate:"required"`
	Priority  string `json:"priority" validate:"required,oneof=low medium high urgent"`
}

func buildEmployee(p employeePayload) model.Employee {
	return model.Employee{
		FirstName:  strings.TrimSpace(p.FirstName),
		LastName:   strings.TrimSpace(p.LastName),
		Email:      strings.ToLower(strings.TrimSpace(p.Email)),
		Department: strings.TrimSpace(p.Department),
		Role:       strings.TrimSpace(p.Role),
		StartDate:  strings.TrimSpace(p.StartDate),
	}
}

func buildBenefit(p benefitPayload) model.Benefit {
	return model.Benefit{
		Name:        strings.TrimSpace(p.Name),
		Provider:    strings.TrimSpace(p.Provider),
		Category:    p.Category,
		MonthlyCost: p.MonthlyCost,
	}
}

func buildOnboarding(p onboardingPayload) model.Onboarding {
	return model.Onboarding{
		EmployeeName: strings.TrimSpace(p.EmployeeName),
		Mentor:       strings.TrimSpace(p.Mentor),
		StartDate:    strings.TrimSpace(p.StartDate),
	}
}

func buildPosting(p postingPayload) model.JobPosting {
	return model.JobPosting{
		Title:          strings.TrimSpace(p.Title),
		Department:     strings.TrimSpace(p.Department),
		Location:       strings.TrimSpace(p.Location),
		EmploymentType: p.EmploymentType,
	}
}

func buildAbsence(p absencePayload) model.Absence {
	return model.Absence{
		EmployeeName: strings.TrimSpace(p.EmployeeName),
		Kind:         p.Kind,
		StartDate:    strings.TrimSpace(p.StartDate),
		EndDate:      strings.TrimSpace(p.EndDate),
	}
}

func buildTicket(p ticketPayload) model.Ticket {
	return model.Ticket{
		Subject:   strings.TrimSpace(p.Subject),
		Requester: strings.TrimSpace(p.Requester),
		Priority:  p.Priority,
	}
}

type overviewDocument struct {
	Devices deviceSummary `json:"devices"`
	Tickets ticketSummary `json:"tickets"`
}

type deviceSummary struct {
	Total    int `json:"total"`
	InUse    int `json:"inUse"`
	InRepair int `json:"inRepair"`
}

type ticketSummary struct {
	Open   int `json:"open"`
	Urgent int `json:"urgent"`
}

// handleOverview aggregates the IT stores into the dashboard's headline
// numbers. Open counts anything still being worked; urgent counts the
// unresolved urgent-priority slice of it.
func (s *Server) handleOverview(w http.ResponseWriter, _ *http.Request) {
	var doc overviewDocument
	for _, d := range s.devices.List() {
		doc.Devices.Total++
		switch d.Status {
		case model.DeviceStatusInUse:
			doc.Devices.InUse++
		case model.DeviceStatusInRepair:
			doc.Devices.InRepair++
		}
	}
	for _, t := range s.tickets.List() {
		active := t.Status == model.TicketStatusOpen || t.Status == model.TicketStatusInProgress
		if !active {
			continue
		}
		doc.Tickets.Open++
		if t.Priority == model.TicketPriorityUrgent {
			doc.Tickets.Urgent++
		}
	}
	writeData(w, http.StatusOK, doc)
}
