// Package report writes suite results to disk as report.json, junit.xml and
// report.html.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devicelab-dev/webelement/pkg/core"
)

// Output file names inside the report directory.
const (
	JSONFile  = "report.json"
	JUnitFile = "junit.xml"
	HTMLFile  = "report.html"
)

// Config controls report generation.
type Config struct {
	Title string // HTML title (default: "Test Report")
}

// Write generates every report format in outputDir, creating it if needed.
func Write(outputDir string, suite *core.SuiteResult, cfg Config) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := WriteJSON(filepath.Join(outputDir, JSONFile), suite); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	if err := WriteJUnit(filepath.Join(outputDir, JUnitFile), suite); err != nil {
		return fmt.Errorf("write junit: %w", err)
	}
	if err := WriteHTML(filepath.Join(outputDir, HTMLFile), suite, cfg); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}

// WriteJSON writes the suite as indented JSON.
func WriteJSON(path string, suite *core.SuiteResult) error {
	data, err := json.MarshalIndent(suite, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

// ReadJSON loads a suite written by WriteJSON.
func ReadJSON(path string) (*core.SuiteResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var suite core.SuiteResult
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &suite, nil
}

// atomicWrite writes data to a temp file in the same directory and renames it over path
// so readers never see a partial file.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
