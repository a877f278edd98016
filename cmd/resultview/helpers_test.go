package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testNow is the fixed clock used by CLI tests.
var testNow = time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)

// testEnv is an Environment backed by buffers.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(stdin string) *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnv{
		Environment: &Environment{
			Now:    func() time.Time { return testNow },
			Stdin:  strings.NewReader(stdin),
			Stdout: stdout,
			Stderr: stderr,
			ReadPassword: func() (string, error) {
				return "", errNotTerminal
			},
		},
		stdout: stdout,
		stderr: stderr,
	}
}

// writeFile writes content under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// writeTestConfig writes a config pointing at apiURL with a private token
// file and returns the config path and token file path.
func writeTestConfig(t *testing.T, apiURL string) (cfgPath, tokenFile string) {
	t.Helper()

	dir := t.TempDir()
	tokenFile = filepath.Join(dir, "tokens.yaml")
	cfgPath = writeFile(t, dir, "config.yaml", "api:\n  baseURL: "+apiURL+"\n  rateLimit: 0\nauth:\n  tokenFile: "+tokenFile+"\n")
	return cfgPath, tokenFile
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path) // #nosec G304 -- test path
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func readIfExists(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- test path
	return string(data), err
}
