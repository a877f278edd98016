package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// runLogin signs in and stores the token pair.
func runLogin(ctx context.Context, args []string, env *Environment) error {
	f := &loginFlags{}
	fs := newLoginFlagSet("login", f, printLoginUsage, env.Stderr)
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}

	log := newLogger(env, f.common)
	cfg, err := loadConfig(f.common, loadEnvConfig())
	if err != nil {
		return err
	}
	mergeAPIFlags(f.api, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// One reader for both prompts so buffered input is not lost
	in := bufio.NewReader(env.Stdin)

	username := f.username
	if username == "" {
		fmt.Fprint(env.Stderr, "Username: ")
		if username, err = readLine(in); err != nil {
			return fmt.Errorf("%w: reading username: %v", ErrUsage, err)
		}
	}

	var password string
	if f.passwordStdin {
		password, err = readLine(in)
	} else {
		fmt.Fprint(env.Stderr, "Password: ")
		password, err = env.ReadPassword()
		fmt.Fprintln(env.Stderr)
	}
	if err != nil {
		return fmt.Errorf("%w: reading password: %v", ErrUsage, err)
	}

	session, err := newSession(cfg, log)
	if err != nil {
		return err
	}
	if err := session.Login(ctx, username, password); err != nil {
		return withAPIURL(err, cfg.API.BaseURL)
	}

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Logged in as %s\n", username)
	}
	return nil
}

// runLogout removes the stored token pair.
func runLogout(args []string, env *Environment) error {
	f := &loginFlags{}
	fs := newLoginFlagSet("logout", f, printLogoutUsage, env.Stderr)
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}

	log := newLogger(env, f.common)
	cfg, err := loadConfig(f.common, loadEnvConfig())
	if err != nil {
		return err
	}
	mergeAPIFlags(f.api, cfg)

	session, err := newSession(cfg, log)
	if err != nil {
		return err
	}
	user := session.Username()
	if err := session.Logout(); err != nil {
		return err
	}

	if f.common.quiet {
		return nil
	}
	if user == "" {
		fmt.Fprintln(env.Stdout, "Not logged in")
	} else {
		fmt.Fprintf(env.Stdout, "Logged out %s\n", user)
	}
	return nil
}

// readLine reads one line without its terminator. A final line without
// a newline is accepted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
