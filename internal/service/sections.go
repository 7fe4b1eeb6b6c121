package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/opsdeskhq/opsdesk/internal/api"
	"github.com/opsdeskhq/opsdesk/internal/domain/model"
	"github.com/opsdeskhq/opsdesk/internal/section"
)

// Backend collection endpoints, one per data section.
const (
	employeesPath   = "/api/hr/employees"
	benefitsPath    = "/api/hr/benefits"
	onboardingPath  = "/api/hr/onboarding"
	recruitmentPath = "/api/hr/recruitment"
	absencesPath    = "/api/hr/absences"
	devicesPath     = "/api/it/devices"
	ticketsPath     = "/api/it/tickets"
)

// SectionsOptions groups dependencies for the dashboard's data sections.
type SectionsOptions struct {
	Client *api.Client // Required: backend REST client
	Logger *slog.Logger
}

// Sections bundles one configured data section per dashboard resource.
// Devices is read-only; every other section also supports Create.
type Sections struct {
	Employees   *section.Section[model.Employee, model.EmployeeView, *model.CreateEmployeeRequest]
	Benefits    *section.Section[model.Benefit, model.BenefitView, *model.CreateBenefitRequest]
	Onboarding  *section.Section[model.Onboarding, model.OnboardingView, *model.CreateOnboardingRequest]
	Recruitment *section.Section[model.JobPosting, model.JobPostingView, *model.CreateJobPostingRequest]
	Absences    *section.Section[model.Absence, model.AbsenceView, *model.CreateAbsenceRequest]
	Devices     *section.Section[model.Device, model.DeviceView, *section.NoRequest]
	Tickets     *section.Section[model.Ticket, model.TicketView, *model.CreateTicketRequest]
}

// NewSections wires every resource section against the backend client.
func NewSections(opts SectionsOptions) (*Sections, error) {
	if opts.Client == nil {
		return nil, errors.New("api client is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := opts.Client

	employees, err := section.New(section.Options[model.Employee, model.EmployeeView, *model.CreateEmployeeRequest]{
		Name:               "employees",
		Fetch:              listFetcher[model.Employee](c, employeesPath),
		Create:             createPoster[model.Employee, *model.CreateEmployeeRequest](c, employeesPath),
		MapRow:             model.NewEmployeeView,
		LoadErrorMessage:   "Unable to load employees.",
		CreateErrorMessage: "Unable to add employee. Please try again.",
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("employees section: %w", err)
	}

	benefits, err := section.New(section.Options[model.Benefit, model.BenefitView, *model.CreateBenefitRequest]{
		Name:               "benefits",
		Fetch:              listFetcher[model.Benefit](c, benefitsPath),
		Create:             createPoster[model.Benefit, *model.CreateBenefitRequest](c, benefitsPath),
		MapRow:             model.NewBenefitView,
		LoadErrorMessage:   "Unable to load benefits.",
		CreateErrorMessage: "Unable to add benefit. Please try again.",
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("benefits section: %w", err)
	}

	onboarding, err := section.New(section.Options[model.Onboarding, model.OnboardingView, *model.CreateOnboardingRequest]{
		Name:               "onboarding",
		Fetch:              listFetcher[model.Onboarding](c, onboardingPath),
		Create:             createPoster[model.Onboarding, *model.CreateOnboardingRequest](c, onboardingPath),
		MapRow:             model.NewOnboardingView,
		LoadErrorMessage:   "Unable to load onboarding flows.",
		CreateErrorMessage: "Unable to add onboarding flow. Please try again.",
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("onboarding section: %w", err)
	}

	recruitment, err := section.New(section.Options[model.JobPosting, model.JobPostingView, *model.CreateJobPostingRequest]{
		Name:               "recruitment",
		Fetch:              listFetcher[model.JobPosting](c, recruitmentPath),
		Create:             createPoster[model.JobPosting, *model.CreateJobPostingRequest](c, recruitmentPath),
		MapRow:             model.NewJobPostingView,
		LoadErrorMessage:   "Unable to load job postings.",
		CreateErrorMessage: "Unable to add job posting. Please try again.",
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("recruitment section: %w", err)
	}

	absences, err := section.New(section.Options[model.Absence, model.AbsenceView, *model.CreateAbsenceRequest]{
		Name:               "absences",
		Fetch:              listFetcher[model.Absence](c, absencesPath),
		Create:             createPoster[model.Absence, *model.CreateAbsenceRequest](c, absencesPath),
		MapRow:             model.NewAbsenceView,
		LoadErrorMessage:   "Unable to load absence requests.",
		CreateErrorMessage: "Unable to add absence request. Please try again.",
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("absences section: %w", err)
	}

	devices, err := section.New(section.Options[model.Device, model.DeviceView, *section.NoRequest]{
		Name:             "devices",
		Fetch:            listFetcher[model.Device](c, devicesPath),
		MapRow:           model.NewDeviceView,
		LoadErrorMessage: "Unable to load devices.",
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("devices section: %w", err)
	}

	tickets, err := section.New(section.Options[model.Ticket, model.TicketView, *model.CreateTicketRequest]{
		Name:               "tickets",
		Fetch:              listFetcher[model.Ticket](c, ticketsPath),
		Create:             createPoster[model.Ticket, *model.CreateTicketRequest](c, ticketsPath),
		MapRow:             model.NewTicketView,
		LoadErrorMessage:   "Unable to load tickets.",
		CreateErrorMessage: "Unable to add ticket. Please try again.",
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("tickets section: %w", err)
	}

	return &Sections{
		Employees:   employees,
		Benefits:    benefits,
		Onboarding:  onboarding,
		Recruitment: recruitment,
		Absences:    absences,
		Devices:     devices,
		Tickets:     tickets,
	}, nil
}

// listFetcher binds a collection endpoint to a section fetch hook.
func listFetcher[R any](c *api.Client, path string) section.Fetcher[R] {
	return func(ctx context.Context) ([]R, error) {
		return api.List[R](ctx, c, path)
	}
}

// createPoster binds a collection endpoint to a section create hook.
func createPoster[R any, Req section.Request](c *api.Client, path string) section.Creator[R, Req] {
	return func(ctx context.Context, req Req) (R, error) {
		return api.Create[R](ctx, c, path, req)
	}
}
