package hints

// ForBrowserConnect tests do not run in parallel: they use t.Setenv and
// replace the package-level IsInContainer.

import (
	"strings"
	"testing"
)

func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "ROD_NO_SANDBOX", "ROD_BROWSER_BIN"} {
		t.Setenv(k, "")
	}
}

func stubContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name         string
		container    bool
		env          map[string]string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "in CI",
			env:          map[string]string{"CI": "true"},
			wantContains: []string{"hint:", "ROD_NO_SANDBOX", "ROD_BROWSER_BIN"},
		},
		{
			name:         "in Docker",
			container:    true,
			wantContains: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:         "sandbox already disabled",
			container:    true,
			env:          map[string]string{"ROD_NO_SANDBOX": "1"},
			wantExcludes: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:         "local with custom browser",
			env:          map[string]string{"ROD_BROWSER_BIN": "/usr/bin/chromium"},
			wantExcludes: []string{"hint:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCIEnv(t)
			stubContainer(t, tt.container)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got := ForBrowserConnect()
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ForBrowserConnect() = %q, want to contain %q", got, want)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("ForBrowserConnect() = %q, should not contain %q", got, exclude)
				}
			}
		})
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	got := ForConfigNotFound([]string{"work.yaml", "/home/u/.config/go-resultview/work.yaml"})
	if !strings.Contains(got, "--config") {
		t.Errorf("hint %q should mention --config", got)
	}
	if !strings.Contains(got, "create /home/u/.config/go-resultview/work.yaml") {
		t.Errorf("hint %q should suggest the user config path", got)
	}

	if strings.Contains(ForConfigNotFound([]string{"work.yaml"}), "create") {
		t.Error("hint should not suggest a path outside the config directory")
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound([]string{"compact", "default"}); got != "\n  hint: available: compact, default" {
		t.Errorf("ForStyleNotFound() = %q", got)
	}
	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", got)
	}
}

func TestForAPIUnreachable(t *testing.T) {
	t.Parallel()

	got := ForAPIUnreachable("http://localhost:8000")
	if !strings.Contains(got, "at http://localhost:8000") || !strings.Contains(got, "RESULTVIEW_API_URL") {
		t.Errorf("ForAPIUnreachable() = %q", got)
	}
	if strings.Contains(ForAPIUnreachable(""), " at ") {
		t.Error("empty base URL should not be shown")
	}
}

func TestSimpleHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"timeout", ForTimeout(), "--timeout"},
		{"output directory", ForOutputDirectory(), "writable"},
		{"session expired", ForSessionExpired(), "resultview login"},
	}

	for _, tt := range tests {
		if !strings.HasPrefix(tt.got, "\n  hint: ") {
			t.Errorf("%s: %q missing hint prefix", tt.name, tt.got)
		}
		if !strings.Contains(tt.got, tt.want) {
			t.Errorf("%s: %q should contain %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	if format("") != "" {
		t.Error("format(\"\") should be empty")
	}
	if formatHints(nil) != "" {
		t.Error("formatHints(nil) should be empty")
	}
	if got := formatHints([]string{"a", "b"}); got != "\n  hint: a; b" {
		t.Errorf("formatHints() = %q", got)
	}
}
