package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	resultview "github.com/alnah/go-resultview"
	"github.com/alnah/go-resultview/internal/auth"
	"github.com/alnah/go-resultview/internal/config"
	"github.com/alnah/go-resultview/internal/searchclient"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// Auth errors (exit 6)
		{"unauthorized", searchclient.ErrUnauthorized, ExitAuth},
		{"login failed", auth.ErrLoginFailed, ExitAuth},
		{"session expired", auth.ErrSessionExpired, ExitAuth},
		{"refresh failed", auth.ErrRefreshFailed, ExitAuth},
		{"no session", auth.ErrNoSession, ExitAuth},
		{"unauthorized wins over search failed", fmt.Errorf("%w: %w", searchclient.ErrUnauthorized, searchclient.ErrSearchFailed), ExitAuth},

		// API errors (exit 5)
		{"search failed", searchclient.ErrSearchFailed, ExitAPI},
		{"api error", &searchclient.APIError{Status: 500, Message: "boom"}, ExitAPI},
		{"unreachable", searchclient.ErrUnreachable, ExitAPI},
		{"bad response", searchclient.ErrBadResponse, ExitAPI},
		{"health failed", searchclient.ErrHealthFailed, ExitAPI},
		{"wrapped with api url", withAPIURL(fmt.Errorf("searching: %w", searchclient.ErrUnreachable), "http://x"), ExitAPI},

		// Browser errors (exit 4)
		{"browser connect", resultview.ErrBrowserConnect, ExitBrowser},
		{"page create", resultview.ErrPageCreate, ExitBrowser},
		{"page load", resultview.ErrPageLoad, ExitBrowser},
		{"pdf generation", resultview.ErrPDFGeneration, ExitBrowser},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read input", ErrReadInput, ExitIO},
		{"read css", ErrReadCSS, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"token store", auth.ErrTokenStore, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid value", config.ErrInvalidValue, ExitUsage},
		{"empty term", resultview.ErrEmptyTerm, ExitUsage},
		{"invalid mode", resultview.ErrInvalidMode, ExitUsage},
		{"invalid sortby", resultview.ErrInvalidSortBy, ExitUsage},
		{"invalid count", resultview.ErrInvalidCount, ExitUsage},
		{"invalid engine", resultview.ErrInvalidEngine, ExitUsage},
		{"invalid page", resultview.ErrInvalidPage, ExitUsage},
		{"style not found", resultview.ErrStyleNotFound, ExitUsage},
		{"invalid client config", searchclient.ErrInvalidConfig, ExitUsage},
		{"usage", ErrUsage, ExitUsage},
		{"invalid extension", ErrInvalidExtension, ExitUsage},
		{"invalid workers", ErrInvalidWorkerCount, ExitUsage},
		{"invalid format", ErrInvalidFormat, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("unknown"), ExitGeneral},
		{"render internal", resultview.ErrRenderInternal, ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_Conventions(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Errorf("Unix conventions broken: success=%d general=%d usage=%d", ExitSuccess, ExitGeneral, ExitUsage)
	}

	seen := map[int]bool{}
	for _, code := range []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitBrowser, ExitAPI, ExitAuth} {
		if code >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", code)
		}
		if seen[code] {
			t.Errorf("exit code %d used twice", code)
		}
		seen[code] = true
	}
}
