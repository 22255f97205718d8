package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/webelement/pkg/core"
	"github.com/devicelab-dev/webelement/pkg/report"
)

// runApp runs the CLI with args, capturing output and suppressing os.Exit.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })

	app := NewApp()
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"webelement", "--no-ansi"}, args...))
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func exitCode(err error) int {
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return -1
}

func TestResolveOutputDir(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		flatten   bool
		wantErr   bool
		wantExact string
		wantBase  string
	}{
		{name: "default", wantBase: "reports"},
		{name: "output", output: "out", wantBase: "out"},
		{name: "flatten", output: "out/", flatten: true, wantExact: "out"},
		{name: "flatten without output", flatten: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveOutputDir(tt.output, tt.flatten)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantExact != "" && got != tt.wantExact {
				t.Errorf("got %q, want %q", got, tt.wantExact)
			}
			if tt.wantBase != "" && filepath.Base(filepath.Dir(got)) != tt.wantBase {
				t.Errorf("got %q, want timestamp folder under %q", got, tt.wantBase)
			}
		})
	}
}

func TestParseEnvVars(t *testing.T) {
	got := parseEnvVars([]string{"USER=alice", "QUERY=a=b", "BROKEN", "EMPTY="})
	want := map[string]string{"USER": "alice", "QUERY": "a=b", "EMPTY": ""}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	for ms, want := range map[int64]string{
		0:      "0ms",
		999:    "999ms",
		1500:   "1.5s",
		59999:  "60.0s",
		125000: "2m 5s",
	} {
		if got := formatDuration(ms); got != want {
			t.Errorf("formatDuration(%d) = %q, want %q", ms, got, want)
		}
	}
}

func TestLoadCapabilities(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "caps.json", `{"acceptInsecureCerts": true, "goog:chromeOptions": {"args": ["--lang=en"]}}`)

	caps, err := loadCapabilities(path)
	if err != nil {
		t.Fatalf("loadCapabilities() error = %v", err)
	}
	if caps["acceptInsecureCerts"] != true {
		t.Errorf("caps = %v", caps)
	}
	if _, ok := caps["goog:chromeOptions"].(map[string]interface{}); !ok {
		t.Errorf("nested caps = %T", caps["goog:chromeOptions"])
	}

	if _, err := loadCapabilities(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "login.yaml", "name: Login\n---\n- click: \"#login\"\n")

	out, err := runApp(t, "validate", "--dump", dir)
	if err != nil {
		t.Fatalf("validate error = %v\n%s", err, out)
	}
	for _, want := range []string{"✓ Login", "1 steps", "1 flow(s) valid", "ClickStep"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "- tapOn: Login\n")

	out, err := runApp(t, "validate", dir)
	if exitCode(err) != 1 {
		t.Fatalf("err = %v, want exit code 1", err)
	}
	if !strings.Contains(out, "bad.yaml") {
		t.Errorf("output should name the bad file:\n%s", out)
	}
}

func TestRunCommand_DryRun(t *testing.T) {
	dir := t.TempDir()
	flowPath := writeFile(t, dir, "login.yaml", `
name: Login
url: https://example.com/login
---
- click: "#cookie-accept"
- sendKeys: { id: user, text: "${USER}" }
- waitForVisible: { css: "button.submit" }
`)
	outDir := filepath.Join(dir, "out")
	logFile := filepath.Join(dir, "run.log")

	out, err := runApp(t, "--log-file", logFile, "run", "--dry-run",
		"--output", outDir, "--flatten", "-e", "USER=alice", flowPath)
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, out)
	}

	suite, err := report.ReadJSON(filepath.Join(outDir, report.JSONFile))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if suite.TotalFlows != 1 || suite.Flows[0].Status != core.StatusPassed {
		t.Errorf("suite = %+v", suite)
	}
	if got := suite.Flows[0].TotalSteps; got != 4 {
		t.Errorf("TotalSteps = %d, want 4 (open + 3)", got)
	}
	if !strings.Contains(out, "TOTAL") || !strings.Contains(out, "Reports:") {
		t.Errorf("missing summary:\n%s", out)
	}
	if info, err := os.Stat(logFile); err != nil || info.Size() == 0 {
		t.Errorf("log file not written: %v", err)
	}
}

func TestRunCommand_VerboseCopiesLogToStderr(t *testing.T) {
	dir := t.TempDir()
	flowPath := writeFile(t, dir, "login.yaml", "name: Login\n---\n- click: \"#login\"\n")

	var errBuf bytes.Buffer
	prev := stderr
	stderr = &errBuf
	t.Cleanup(func() { stderr = prev })

	out, err := runApp(t, "--verbose", "run", "--dry-run",
		"--output", filepath.Join(dir, "out"), "--flatten", flowPath)
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, out)
	}
	for _, want := range []string{"Run started", "flow=Login", "status=passed"} {
		if !strings.Contains(errBuf.String(), want) {
			t.Errorf("stderr missing %q:\n%s", want, errBuf.String())
		}
	}

	errBuf.Reset()
	if _, err := runApp(t, "run", "--dry-run", "--output", filepath.Join(dir, "out2"), "--flatten", flowPath); err != nil {
		t.Fatal(err)
	}
	if errBuf.Len() != 0 {
		t.Errorf("stderr written without --verbose:\n%s", errBuf.String())
	}
}

func TestRunCommand_FailureExitCode(t *testing.T) {
	dir := t.TempDir()
	flowPath := writeFile(t, dir, "home.yaml", "- assertText: { css: h1, text: Welcome }\n")

	out, err := runApp(t, "run", "--dry-run", "--timeout", "10ms", "--interval", "5ms",
		"--output", filepath.Join(dir, "out"), "--flatten", flowPath)
	if exitCode(err) != 1 {
		t.Fatalf("err = %v, want exit code 1\n%s", err, out)
	}
	if !strings.Contains(out, "✗ FAIL") {
		t.Errorf("summary should show the failed flow:\n%s", out)
	}
}

func TestRunCommand_WorkspaceConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "smoke.yaml", "tags: [smoke]\n---\n- click: \"#a\"\n")
	writeFile(t, dir, "slow.yaml", "tags: [slow]\n---\n- click: \"#b\"\n")
	configPath := writeFile(t, dir, "config.yaml", `
flows: ["*.yaml"]
excludeTags: [slow]
timeoutMs: 50
`)
	outDir := filepath.Join(dir, "out")

	out, err := runApp(t, "run", "--dry-run", "--config", configPath, "--output", outDir, "--flatten")
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, out)
	}
	suite, err := report.ReadJSON(filepath.Join(outDir, report.JSONFile))
	if err != nil {
		t.Fatal(err)
	}
	if suite.TotalFlows != 1 || suite.Flows[0].FilePath != filepath.Join(dir, "smoke.yaml") {
		t.Errorf("flows = %+v", suite.Flows)
	}
}

func TestRunCommand_NoFlows(t *testing.T) {
	_, err := runApp(t, "run", "--dry-run", "--config", writeFile(t, t.TempDir(), "config.yaml", "browser: chrome\n"))
	if err == nil || !strings.Contains(err.Error(), "at least one flow") {
		t.Errorf("err = %v", err)
	}
}
