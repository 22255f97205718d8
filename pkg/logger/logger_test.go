package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit_WritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")

	if err := Init(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Info("opened %s", "https://example.test")
	Warn("retrying %d", 2)
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if entry["level"] != "info" {
		t.Errorf("expected level info, got %v", entry["level"])
	}
	if entry["message"] != "opened https://example.test" {
		t.Errorf("unexpected message %v", entry["message"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected time field")
	}
}

func TestInit_BadPath(t *testing.T) {
	err := Init(filepath.Join(t.TempDir(), "missing", "run.log"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestDebug_OnlyWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	defer Close()

	SetVerbose(false)
	InitWriter(&buf)
	Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}

	SetVerbose(true)
	defer SetVerbose(false)
	Debug("shown")
	if !strings.Contains(buf.String(), `"message":"shown"`) {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}

func TestStep_Fields(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	defer Close()

	Step("login", 3, "click css selector=#go", "failed", errors.New("boom"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["flow"] != "login" || entry["status"] != "failed" {
		t.Errorf("unexpected fields: %v", entry)
	}
	if entry["step"] != float64(3) {
		t.Errorf("expected step 3, got %v", entry["step"])
	}
	if entry["error"] != "boom" || entry["level"] != "warn" {
		t.Errorf("expected warn with error, got %v", entry)
	}
}

func TestClose_Discards(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	Close()
	Info("nobody hears this")
	if buf.Len() != 0 {
		t.Errorf("expected nothing after Close, got %q", buf.String())
	}
}

func TestSetConsole_CopiesReadableLines(t *testing.T) {
	var file, console bytes.Buffer
	SetVerbose(true)
	InitWriter(&file)
	SetConsole(&console)
	defer func() {
		SetConsole(nil)
		SetVerbose(false)
		InitWriter(&bytes.Buffer{})
	}()

	Debug("found %d elements", 2)
	Step("login", 1, "click css=\"#submit\"", "passed", nil)

	if !strings.Contains(console.String(), "DBG found 2 elements") {
		t.Errorf("console missing debug line:\n%s", console.String())
	}
	if !strings.Contains(console.String(), "flow=login") || strings.Contains(console.String(), "{") {
		t.Errorf("console should carry readable fields:\n%s", console.String())
	}
	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSON lines, got %d: %q", len(lines), file.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("file line is not JSON: %v", err)
	}
	if entry["level"] != "debug" {
		t.Errorf("level = %v, want debug", entry["level"])
	}

	SetConsole(nil)
	console.Reset()
	Info("quiet")
	if console.Len() != 0 {
		t.Errorf("console still written after SetConsole(nil): %q", console.String())
	}
}
