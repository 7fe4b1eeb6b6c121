package main

import (
	"errors"
	"flag"
	"os"
	"strings"
)

type credentialOptions struct {
	Email    string
	Password string
}

func parseCredentialFlags(name string, args []string) (credentialOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts credentialOptions
	fs.StringVar(&opts.Email, "email", "", "Account email address (prompted when omitted)")
	fs.StringVar(&opts.Password, "password", "", "Account password (prompted when omitted)")

	if err := fs.Parse(args); err != nil {
		return credentialOptions{}, err
	}
	return opts, nil
}

func resolveCredentials(opts *credentialOptions) error {
	opts.Email = strings.TrimSpace(opts.Email)
	if opts.Email == "" {
		email, err := promptLine("email")
		if err != nil {
			return err
		}
		opts.Email = email
	}
	if opts.Password == "" {
		password, err := promptLine("password")
		if err != nil {
			return err
		}
		opts.Password = password
	}
	if opts.Email == "" || opts.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	opts, err := parseCredentialFlags("login", args)
	if err != nil {
		return err
	}
	if err := resolveCredentials(&opts); err != nil {
		return err
	}

	app, err := openApp(cmdCtx)
	if err != nil {
		return err
	}
	defer closeApp(cmdCtx, app)

	if !app.Session.Login(cmdCtx.Ctx, opts.Email, opts.Password) {
		return errors.New("login failed; check the email and password")
	}
	return writef(os.Stdout, "signed in as %s\n", app.Session.State().Email())
}

func runSignup(cmdCtx *commandContext, args []string) error {
	opts, err := parseCredentialFlags("signup", args)
	if err != nil {
		return err
	}
	if err := resolveCredentials(&opts); err != nil {
		return err
	}

	app, err := openApp(cmdCtx)
	if err != nil {
		return err
	}
	defer closeApp(cmdCtx, app)

	if !app.Session.Signup(cmdCtx.Ctx, opts.Email, opts.Password) {
		return errors.New("signup failed; the email may be taken or the password too short")
	}
	return writef(os.Stdout, "account created; signed in as %s\n", app.Session.State().Email())
}

func runLogout(cmdCtx *commandContext, args []string) error {
	if len(args) > 0 {
		return errors.New("logout takes no arguments")
	}

	app, err := openApp(cmdCtx)
	if err != nil {
		return err
	}
	defer closeApp(cmdCtx, app)

	app.Session.Logout(cmdCtx.Ctx)
	return writeln(os.Stdout, "signed out")
}

func runWhoami(cmdCtx *commandContext, args []string) error {
	if len(args) > 0 {
		return errors.New("whoami takes no arguments")
	}

	app, err := openApp(cmdCtx)
	if err != nil {
		return err
	}
	defer closeApp(cmdCtx, app)

	state := app.Session.Bootstrap(cmdCtx.Ctx)
	if !state.Authenticated {
		return writeln(os.Stdout, "not signed in")
	}
	if email := state.Email(); email != "" {
		return writef(os.Stdout, "signed in as %s\n", email)
	}
	return writeln(os.Stdout, "signed in")
}
