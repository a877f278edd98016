package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alnah/go-resultview/internal/config"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{"sub": "bob"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestCheckSession(t *testing.T) {
	t.Parallel()

	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)

	tests := []struct {
		name            string
		tokens          string // empty = no file
		wantLoggedIn    bool
		wantRefreshable bool
		wantWarning     string
		wantError       string
	}{
		{
			name:        "no session",
			wantWarning: "Not logged in",
		},
		{
			name:            "valid session",
			tokens:          "username: bob\naccess: " + signedToken(t, future) + "\nrefresh: " + signedToken(t, future) + "\n",
			wantLoggedIn:    true,
			wantRefreshable: true,
		},
		{
			name:            "expired access but refreshable",
			tokens:          "access: " + signedToken(t, past) + "\nrefresh: " + signedToken(t, future) + "\n",
			wantLoggedIn:    true,
			wantRefreshable: true,
		},
		{
			name:         "fully expired",
			tokens:       "access: " + signedToken(t, past) + "\nrefresh: " + signedToken(t, past) + "\n",
			wantLoggedIn: true,
			wantWarning:  "Session expired",
		},
		{
			name:      "corrupt file",
			tokens:    "access: [unterminated",
			wantError: "Token file unreadable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfgPath, tokenFile := writeTestConfig(t, "http://127.0.0.1:1")
			if tt.tokens != "" {
				if err := os.WriteFile(tokenFile, []byte(tt.tokens), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				t.Fatal(err)
			}

			result := &doctorResult{}
			checkSession(result, cfg, testNow)

			if result.Session.LoggedIn != tt.wantLoggedIn {
				t.Errorf("LoggedIn = %v, want %v", result.Session.LoggedIn, tt.wantLoggedIn)
			}
			if result.Session.Refreshable != tt.wantRefreshable {
				t.Errorf("Refreshable = %v, want %v", result.Session.Refreshable, tt.wantRefreshable)
			}
			if result.Session.TokenFile != tokenFile {
				t.Errorf("TokenFile = %q, want %q", result.Session.TokenFile, tokenFile)
			}
			assertMessage(t, "warnings", result.Warnings, tt.wantWarning)
			assertMessage(t, "errors", result.Errors, tt.wantError)
		})
	}
}

// assertMessage checks that msgs is empty when want is empty, or that one
// message contains want.
func assertMessage(t *testing.T, kind string, msgs []string, want string) {
	t.Helper()

	if want == "" {
		if len(msgs) > 0 {
			t.Errorf("unexpected %s: %v", kind, msgs)
		}
		return
	}
	for _, m := range msgs {
		if strings.Contains(m, want) {
			return
		}
	}
	t.Errorf("%s = %v, want one containing %q", kind, msgs, want)
}

func TestCheckAPI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		handler       http.HandlerFunc
		wantReachable bool
		wantWarning   string
	}{
		{
			name: "healthy",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status": "healthy", "version": "1.4.0"}`))
			},
			wantReachable: true,
		},
		{
			name: "degraded",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status": "degraded"}`))
			},
			wantWarning: "Search API not ready",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantWarning: "status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mux := http.NewServeMux()
			mux.Handle("GET /api/health", tt.handler)
			srv := httptest.NewServer(mux)
			defer srv.Close()

			cfg := config.DefaultConfig()
			cfg.API.BaseURL = srv.URL
			cfg.API.RateLimit = 0

			result := &doctorResult{}
			checkAPI(context.Background(), result, cfg)

			if result.API.Reachable != tt.wantReachable {
				t.Errorf("Reachable = %v, want %v (warnings: %v)", result.API.Reachable, tt.wantReachable, result.Warnings)
			}
			if result.API.URL != srv.URL {
				t.Errorf("URL = %q, want %q", result.API.URL, srv.URL)
			}
			assertMessage(t, "warnings", result.Warnings, tt.wantWarning)
			if len(result.Errors) > 0 {
				t.Errorf("unreachable API must not be an error: %v", result.Errors)
			}
		})
	}

	t.Run("healthy version recorded", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status": "healthy", "version": "1.4.0"}`))
		}))
		defer srv.Close()

		cfg := config.DefaultConfig()
		cfg.API.BaseURL = srv.URL

		result := &doctorResult{}
		checkAPI(context.Background(), result, cfg)
		if result.API.Version != "1.4.0" || result.API.Status != "healthy" {
			t.Errorf("API = %+v", result.API)
		}
	})
}

func TestCheckAssets(t *testing.T) {
	t.Parallel()

	customDir := t.TempDir()
	writeFile(t, customDir, "styles/mine.css", "body { color: black; }")

	tests := []struct {
		name       string
		basePath   string
		style      string
		wantCustom bool
		wantLoaded bool
	}{
		{"embedded default", "", "", false, true},
		{"embedded compact", "", "compact", false, true},
		{"custom style", customDir, "mine", true, true},
		{"custom falls back to embedded", customDir, "compact", true, true},
		{"unknown style", "", "neon", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Assets.BasePath = tt.basePath
			cfg.Render.Style = tt.style

			result := &doctorResult{}
			checkAssets(result, cfg)

			if result.Assets.Custom != tt.wantCustom {
				t.Errorf("Custom = %v, want %v", result.Assets.Custom, tt.wantCustom)
			}
			if result.Assets.Loaded != tt.wantLoaded {
				t.Errorf("Loaded = %v, want %v (errors %v)", result.Assets.Loaded, tt.wantLoaded, result.Errors)
			}
			if !tt.wantLoaded && len(result.Errors) == 0 {
				t.Error("expected an error for an unloadable style")
			}
		})
	}
}

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	exp := testNow.Add(time.Hour)
	r := &doctorResult{
		Status:  "warnings",
		Chrome:  chromeInfo{Found: true, Path: "/usr/bin/chromium", Version: "Chromium 140", Sandbox: false},
		Env:     envInfo{OS: "linux", Arch: "amd64", Container: true, ContainerHint: "/.dockerenv"},
		System:  systemInfo{TempWritable: true},
		Assets:  assetsInfo{Custom: true, Dir: "/styles", Style: "compact", Loaded: true},
		API:     apiInfo{URL: "http://api", Reachable: true, Status: "healthy", Version: "1.4.0"},
		Session: sessionInfo{LoggedIn: true, Username: "bob", AccessExpires: &exp, TokenFile: "/t/tokens.yaml"},
		Warnings: []string{
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1",
		},
	}

	var buf bytes.Buffer
	printDoctorResult(&buf, r)
	got := buf.String()

	for _, want := range []string{
		"resultview doctor",
		"[OK] Found at /usr/bin/chromium",
		"[OK] Sandbox: disabled (ROD_NO_SANDBOX=1)",
		"[OK] Container: detected (/.dockerenv)",
		"[OK] Custom directory: /styles",
		"[OK] Style: compact",
		"[OK] http://api (healthy)",
		"[OK] Version: 1.4.0",
		"[OK] Logged in as bob",
		"[OK] Access token expires 2026-03-14T10:26:00Z",
		"[WARN] Container/CI detected",
		"Status: Ready with warnings",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	}))
	defer srv.Close()
	cfgPath, _ := writeTestConfig(t, srv.URL)

	env := newTestEnv("")
	code := runMain(context.Background(), []string{"doctor", "--json", "-c", cfgPath}, env.Environment)

	var result doctorResult
	if err := json.Unmarshal(env.stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, env.stdout.String())
	}
	if !result.API.Reachable {
		t.Errorf("API not reachable: %+v", result.API)
	}
	if result.Session.LoggedIn {
		t.Error("no session was stored")
	}
	wantCode := ExitSuccess
	if result.Status == "errors" {
		wantCode = ExitGeneral
	}
	if code != wantCode {
		t.Errorf("runMain() = %d, want %d for status %q", code, wantCode, result.Status)
	}
}

func TestRunDoctorCmd_BadFlag(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	if code := runMain(context.Background(), []string{"doctor", "--nope"}, env.Environment); code != ExitUsage {
		t.Errorf("runMain() = %d, want %d", code, ExitUsage)
	}
}
