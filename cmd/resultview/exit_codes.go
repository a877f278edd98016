package main

import (
	"errors"
	"os"

	resultview "github.com/alnah/go-resultview"
	"github.com/alnah/go-resultview/internal/auth"
	"github.com/alnah/go-resultview/internal/config"
	"github.com/alnah/go-resultview/internal/searchclient"
)

// Exit codes for the resultview CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitAPI     = 5 // Search API unreachable or returned an error
	ExitAuth    = 6 // Login failed or session expired
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Auth errors (exit 6), checked before API errors since a rejected
	// token surfaces through the search client
	if errors.Is(err, searchclient.ErrUnauthorized) ||
		errors.Is(err, auth.ErrLoginFailed) ||
		errors.Is(err, auth.ErrSessionExpired) ||
		errors.Is(err, auth.ErrRefreshFailed) ||
		errors.Is(err, auth.ErrNoSession) {
		return ExitAuth
	}

	// API errors (exit 5)
	if errors.Is(err, searchclient.ErrSearchFailed) ||
		errors.Is(err, searchclient.ErrUnreachable) ||
		errors.Is(err, searchclient.ErrBadResponse) ||
		errors.Is(err, searchclient.ErrHealthFailed) {
		return ExitAPI
	}

	// Browser errors (exit 4)
	if errors.Is(err, resultview.ErrBrowserConnect) ||
		errors.Is(err, resultview.ErrPageCreate) ||
		errors.Is(err, resultview.ErrPageLoad) ||
		errors.Is(err, resultview.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, auth.ErrTokenStore) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, resultview.ErrEmptyTerm) ||
		errors.Is(err, resultview.ErrInvalidMode) ||
		errors.Is(err, resultview.ErrInvalidSortBy) ||
		errors.Is(err, resultview.ErrInvalidCount) ||
		errors.Is(err, resultview.ErrInvalidEngine) ||
		errors.Is(err, resultview.ErrInvalidPage) ||
		errors.Is(err, resultview.ErrStyleNotFound) ||
		errors.Is(err, resultview.ErrInvalidAssetPath) ||
		errors.Is(err, searchclient.ErrInvalidConfig) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
