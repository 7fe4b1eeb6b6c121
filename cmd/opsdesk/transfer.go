package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/opsdeskhq/opsdesk/internal/bootstrap"
	"github.com/opsdeskhq/opsdesk/internal/export"
	"github.com/opsdeskhq/opsdesk/internal/service"
)

type exportOptions struct {
	Out string
	XZ  bool
}

func parseExportFlags(args []string) (exportOptions, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts exportOptions
	fs.StringVar(&opts.Out, "out", "", "Output path (defaults to opsdesk-export.xlsx)")
	fs.BoolVar(&opts.XZ, "xz", false, "Compress the workbook stream with xz")

	if err := fs.Parse(args); err != nil {
		return exportOptions{}, err
	}

	opts.Out = strings.TrimSpace(opts.Out)
	if opts.Out == "" {
		opts.Out = "opsdesk-export.xlsx"
		if opts.XZ {
			opts.Out += ".xz"
		}
	}
	return opts, nil
}

func runExport(cmdCtx *commandContext, args []string) error {
	opts, err := parseExportFlags(args)
	if err != nil {
		return err
	}

	return withSession(cmdCtx, func(app *bootstrap.App) error {
		sheets, err := collectSheets(cmdCtx.Ctx, app)
		if err != nil {
			return err
		}

		write := export.WriteWorkbook
		if opts.XZ {
			write = export.WriteWorkbookXZ
		}

		f, err := os.Create(opts.Out)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.Out, err)
		}
		if writeErr := write(f, sheets); writeErr != nil {
			if closeErr := f.Close(); closeErr != nil {
				writeErr = errors.Join(writeErr, closeErr)
			}
			return writeErr
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", opts.Out, err)
		}

		return writef(os.Stdout, "exported %d sheets to %s\n", len(sheets), opts.Out)
	})
}

// collectSheets loads every section concurrently; one failed section fails
// the whole export rather than producing a partial workbook.
func collectSheets(ctx context.Context, app *bootstrap.App) ([]export.Sheet, error) {
	sheets := make([]export.Sheet, 7)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := sectionRows(gctx, app.Sections.Employees)
		if err != nil {
			return err
		}
		sheets[0] = export.EmployeeSheet(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := sectionRows(gctx, app.Sections.Benefits)
		if err != nil {
			return err
		}
		sheets[1] = export.BenefitSheet(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := sectionRows(gctx, app.Sections.Onboarding)
		if err != nil {
			return err
		}
		sheets[2] = export.OnboardingSheet(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := sectionRows(gctx, app.Sections.Recruitment)
		if err != nil {
			return err
		}
		sheets[3] = export.RecruitmentSheet(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := sectionRows(gctx, app.Sections.Absences)
		if err != nil {
			return err
		}
		sheets[4] = export.AbsenceSheet(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := sectionRows(gctx, app.Sections.Devices)
		if err != nil {
			return err
		}
		sheets[5] = export.DeviceSheet(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := sectionRows(gctx, app.Sections.Tickets)
		if err != nil {
			return err
		}
		sheets[6] = export.TicketSheet(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sheets, nil
}

type importOptions struct {
	File string
}

func parseImportFlags(args []string) (importOptions, error) {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts importOptions
	fs.StringVar(&opts.File, "file", "", "Roster workbook path (.xlsx or .xls)")

	if err := fs.Parse(args); err != nil {
		return importOptions{}, err
	}

	opts.File = strings.TrimSpace(opts.File)
	if opts.File == "" {
		return importOptions{}, errors.New("-file is required")
	}
	return opts, nil
}

func runImport(cmdCtx *commandContext, args []string) error {
	opts, err := parseImportFlags(args)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.File)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	reqs, parseErr := service.ParseRoster(f, filepath.Base(opts.File))
	if closeErr := f.Close(); closeErr != nil && parseErr == nil {
		parseErr = fmt.Errorf("close roster: %w", closeErr)
	}
	if parseErr != nil {
		return parseErr
	}

	return withSession(cmdCtx, func(app *bootstrap.App) error {
		report, importErr := app.Roster.Import(cmdCtx.Ctx, reqs)
		if printErr := printRosterReport(report); printErr != nil {
			return printErr
		}
		return importErr
	})
}

// printRosterReport prints the partial report even when the run errored,
// so operators can see how far the import got.
func printRosterReport(report service.RosterReport) error {
	if err := writef(os.Stdout, "imported %d employees, skipped %d rows\n",
		report.Created, len(report.Skipped)); err != nil {
		return err
	}
	if len(report.Skipped) == 0 {
		return nil
	}

	w := newTable()
	if err := writeln(w, "Row\tIssues"); err != nil {
		return err
	}
	for _, s := range report.Skipped {
		if err := writef(w, "%d\t%s\n", s.Row, strings.Join(s.Issues, "; ")); err != nil {
			return err
		}
	}
	return w.Flush()
}
