package main

import (
	"errors"
	"flag"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/opsdeskhq/opsdesk/internal/bootstrap"
	"github.com/opsdeskhq/opsdesk/internal/domain/model"
	"github.com/opsdeskhq/opsdesk/internal/service"
)

var (
	errHRUsage = errors.New(
		"usage: opsdesk hr <employees|benefits|onboarding|recruitment|absences> <list|add> [flags]",
	)
	errITUsage = errors.New("usage: opsdesk it <devices|tickets|overview> [list|add] [flags]")
)

// splitAction peels "<resource> [action]" off the front of the args. The
// action defaults to list so "opsdesk it overview" works bare.
func splitAction(args []string, usage error) (resource, action string, rest []string, err error) {
	if len(args) == 0 {
		return "", "", nil, usage
	}
	resource = strings.ToLower(args[0])
	action = "list"
	rest = args[1:]
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		action = strings.ToLower(rest[0])
		rest = rest[1:]
	}
	return resource, action, rest, nil
}

// withSession wires the app, restores the session, and runs fn. Guarded
// commands funnel through here so anonymous invocations fail before any
// resource request goes out.
func withSession(cmdCtx *commandContext, fn func(app *bootstrap.App) error) error {
	app, err := openApp(cmdCtx)
	if err != nil {
		return err
	}
	defer closeApp(cmdCtx, app)

	if err := requireSession(cmdCtx, app); err != nil {
		return err
	}
	return fn(app)
}

func runHR(cmdCtx *commandContext, args []string) error {
	resource, action, rest, err := splitAction(args, errHRUsage)
	if err != nil {
		return err
	}

	switch resource + " " + action {
	case "employees list":
		return withSession(cmdCtx, func(app *bootstrap.App) error {
			rows, err := sectionRows(cmdCtx.Ctx, app.Sections.Employees)
			if err != nil {
				return err
			}
			return printEmployees(rows)
		})
	case "employees add":
		return addEmployee(cmdCtx, rest)
	case "benefits list":
		return withSession(cmdCtx, func(app *bootstrap.App) error {
			rows, err := sectionRows(cmdCtx.Ctx, app.Sections.Benefits)
			if err != nil {
				return err
			}
			return printBenefits(rows)
		})
	case "benefits add":
		return addBenefit(cmdCtx, rest)
	case "onboarding list":
		return withSession(cmdCtx, func(app *bootstrap.App) error {
			rows, err := sectionRows(cmdCtx.Ctx, app.Sections.Onboarding)
			if err != nil {
				return err
			}
			return printOnboarding(rows)
		})
	case "onboarding add":
		return addOnboarding(cmdCtx, rest)
	case "recruitment list":
		return withSession(cmdCtx, func(app *bootstrap.App) error {
			rows, err := sectionRows(cmdCtx.Ctx, app.Sections.Recruitment)
			if err != nil {
				return err
			}
			return printPostings(rows)
		})
	case "recruitment add":
		return addPosting(cmdCtx, rest)
	case "absences list":
		return withSession(cmdCtx, func(app *bootstrap.App) error {
			rows, err := sectionRows(cmdCtx.Ctx, app.Sections.Absences)
			if err != nil {
				return err
			}
			return printAbsences(rows)
		})
	case "absences add":
		return addAbsence(cmdCtx, rest)
	default:
		return errHRUsage
	}
}

func runIT(cmdCtx *commandContext, args []string) error {
	resource, action, rest, err := splitAction(args, errITUsage)
	if err != nil {
		return err
	}

	switch resource + " " + action {
	case "devices list":
		return withSession(cmdCtx, func(app *bootstrap.App) error {
			rows, err := sectionRows(cmdCtx.Ctx, app.Sections.Devices)
			if err != nil {
				return err
			}
			return printDevices(rows)
		})
	case "tickets list":
		return withSession(cmdCtx, func(app *bootstrap.App) error {
			rows, err := sectionRows(cmdCtx.Ctx, app.Sections.Tickets)
			if err != nil {
				return err
			}
			return printTickets(rows)
		})
	case "tickets add":
		return addTicket(cmdCtx, rest)
	case "overview list":
		if len(rest) > 0 {
			return errITUsage
		}
		return withSession(cmdCtx, func(app *bootstrap.App) error {
			values, err := app.Overview.Fetch(cmdCtx.Ctx)
			if err != nil {
				return err
			}
			return printOverview(values)
		})
	default:
		return errITUsage
	}
}

func addEmployee(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("hr employees add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	req := &model.CreateEmployeeRequest{}
	fs.StringVar(&req.FirstName, "first", "", "First name")
	fs.StringVar(&req.LastName, "last", "", "Last name")
	fs.StringVar(&req.Email, "email", "", "Work email address")
	fs.StringVar(&req.Department, "department", "", "Department")
	fs.StringVar(&req.Role, "role", "", "Role title")
	fs.StringVar(&req.StartDate, "start", "", "Start date YYYY-MM-DD (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withSession(cmdCtx, func(app *bootstrap.App) error {
		view, err := app.Sections.Employees.Create(cmdCtx.Ctx, req)
		if err != nil {
			return err
		}
		if err := writef(os.Stdout, "created employee %d\n", view.ID); err != nil {
			return err
		}
		return printEmployees([]model.EmployeeView{view})
	})
}

func addBenefit(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("hr benefits add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	req := &model.CreateBenefitRequest{}
	fs.StringVar(&req.Name, "name", "", "Plan name")
	fs.StringVar(&req.Provider, "provider", "", "Provider name")
	fs.StringVar(&req.Category, "category", "", "Category (health, dental, vision, retirement, wellness)")
	fs.Float64Var(&req.MonthlyCost, "cost", 0, "Monthly cost per employee")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withSession(cmdCtx, func(app *bootstrap.App) error {
		view, err := app.Sections.Benefits.Create(cmdCtx.Ctx, req)
		if err != nil {
			return err
		}
		if err := writef(os.Stdout, "created benefit %d\n", view.ID); err != nil {
			return err
		}
		return printBenefits([]model.BenefitView{view})
	})
}

func addOnboarding(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("hr onboarding add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	req := &model.CreateOnboardingRequest{}
	fs.StringVar(&req.EmployeeName, "employee", "", "New hire's full name")
	fs.StringVar(&req.Mentor, "mentor", "", "Assigned mentor")
	fs.StringVar(&req.StartDate, "start", "", "Start date YYYY-MM-DD (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withSession(cmdCtx, func(app *bootstrap.App) error {
		view, err := app.Sections.Onboarding.Create(cmdCtx.Ctx, req)
		if err != nil {
			return err
		}
		if err := writef(os.Stdout, "created onboarding flow %d\n", view.ID); err != nil {
			return err
		}
		return printOnboarding([]model.OnboardingView{view})
	})
}

func addPosting(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("hr recruitment add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	req := &model.CreateJobPostingRequest{}
	fs.StringVar(&req.Title, "title", "", "Position title")
	fs.StringVar(&req.Department, "department", "", "Hiring department")
	fs.StringVar(&req.Location, "location", "", "Office or remote location")
	fs.StringVar(&req.EmploymentType, "type", "", "Employment type (full_time, part_time, contract)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withSession(cmdCtx, func(app *bootstrap.App) error {
		view, err := app.Sections.Recruitment.Create(cmdCtx.Ctx, req)
		if err != nil {
			return err
		}
		if err := writef(os.Stdout, "created job posting %d\n", view.ID); err != nil {
			return err
		}
		return printPostings([]model.JobPostingView{view})
	})
}

func addAbsence(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("hr absences add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	req := &model.CreateAbsenceRequest{}
	fs.StringVar(&req.EmployeeName, "employee", "", "Employee's full name")
	fs.StringVar(&req.Kind, "kind", "", "Absence kind (vacation, sick, personal, parental)")
	fs.StringVar(&req.StartDate, "start", "", "First day YYYY-MM-DD")
	fs.StringVar(&req.EndDate, "end", "", "Last day YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withSession(cmdCtx, func(app *bootstrap.App) error {
		view, err := app.Sections.Absences.Create(cmdCtx.Ctx, req)
		if err != nil {
			return err
		}
		if err := writef(os.Stdout, "created absence %d\n", view.ID); err != nil {
			return err
		}
		return printAbsences([]model.AbsenceView{view})
	})
}

func addTicket(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("it tickets add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	req := &model.CreateTicketRequest{}
	fs.StringVar(&req.Subject, "subject", "", "Ticket subject")
	fs.StringVar(&req.Requester, "requester", "", "Requester's name")
	fs.StringVar(&req.Priority, "priority", "", "Priority (low, medium, high, urgent)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withSession(cmdCtx, func(app *bootstrap.App) error {
		view, err := app.Sections.Tickets.Create(cmdCtx.Ctx, req)
		if err != nil {
			return err
		}
		if err := writef(os.Stdout, "created ticket %d\n", view.ID); err != nil {
			return err
		}
		return printTickets([]model.TicketView{view})
	})
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printEmployees(rows []model.EmployeeView) error {
	w := newTable()
	if err := writeln(w, "ID\tName\tEmail\tDepartment\tRole\tStatus\tStart"); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writef(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Email, r.Department, r.Role, r.Status, r.StartDate); err != nil {
			return err
		}
	}
	return w.Flush()
}

func printBenefits(rows []model.BenefitView) error {
	w := newTable()
	if err := writeln(w, "ID\tName\tProvider\tCategory\tMonthly Cost"); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writef(w, "%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Provider, r.Category, r.MonthlyCost); err != nil {
			return err
		}
	}
	return w.Flush()
}

func printOnboarding(rows []model.OnboardingView) error {
	w := newTable()
	if err := writeln(w, "ID\tEmployee\tMentor\tStatus\tStart\tProgress"); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writef(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.EmployeeName, r.Mentor, r.Status, r.StartDate, r.Progress); err != nil {
			return err
		}
	}
	return w.Flush()
}

func printPostings(rows []model.JobPostingView) error {
	w := newTable()
	if err := writeln(w, "ID\tTitle\tDepartment\tLocation\tType\tStatus\tApplicants\tPosted"); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writef(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Title, r.Department, r.Location, r.EmploymentType, r.Status, r.Applicants, r.Posted); err != nil {
			return err
		}
	}
	return w.Flush()
}

func printAbsences(rows []model.AbsenceView) error {
	w := newTable()
	if err := writeln(w, "ID\tEmployee\tKind\tStart\tEnd\tDays\tStatus"); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writef(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.EmployeeName, r.Kind, r.StartDate, r.EndDate, r.Days, r.Status); err != nil {
			return err
		}
	}
	return w.Flush()
}

func printDevices(rows []model.DeviceView) error {
	w := newTable()
	if err := writeln(w, "ID\tName\tType\tAssigned To\tStatus\tPurchased"); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writef(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.DeviceType, r.AssignedTo, r.Status, r.PurchasedAt); err != nil {
			return err
		}
	}
	return w.Flush()
}

func printTickets(rows []model.TicketView) error {
	w := newTable()
	if err := writeln(w, "ID\tSubject\tRequester\tPriority\tStatus\tOpened"); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writef(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Subject, r.Requester, r.Priority, r.Status, r.Opened); err != nil {
			return err
		}
	}
	return w.Flush()
}

func printOverview(values []service.OverviewValue) error {
	w := newTable()
	if err := writeln(w, "Metric\tValue"); err != nil {
		return err
	}
	for _, v := range values {
		if err := writef(w, "%s\t%s\n", v.Label, v.Value); err != nil {
			return err
		}
	}
	return w.Flush()
}
