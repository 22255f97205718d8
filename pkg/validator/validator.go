// Package validator collects and parses flow files before execution, reporting every
// problem at once instead of stopping at the first bad file.
package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/devicelab-dev/webelement/pkg/flow"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	File    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Result contains the validation result.
type Result struct {
	// Flows are the parsed flows that passed the tag filter, in execution order.
	Flows []*flow.Flow
	// Files is the list of flow file paths, parallel to Flows.
	Files []string
	// Excluded counts flows dropped by the tag filter.
	Excluded int
	// Errors contains all validation errors found.
	Errors []error
}

// IsValid returns true if there are no validation errors.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Validator validates flow files.
type Validator struct {
	includeTags []string
	excludeTags []string
}

// New creates a new Validator.
func New(includeTags, excludeTags []string) *Validator {
	return &Validator{
		includeTags: includeTags,
		excludeTags: excludeTags,
	}
}

// ValidateAll validates every path in order. Paths may be files, directories or glob
// patterns. A file reached twice is parsed once.
func (v *Validator) ValidateAll(paths []string) *Result {
	result := &Result{}
	seen := make(map[string]bool)
	for _, p := range paths {
		v.validate(p, result, seen)
	}
	return result
}

// Validate validates a single file, directory or glob pattern.
func (v *Validator) Validate(path string) *Result {
	return v.ValidateAll([]string{path})
}

func (v *Validator) validate(path string, result *Result, seen map[string]bool) {
	files, err := v.expand(path)
	if err != nil {
		result.Errors = append(result.Errors, &ValidationError{File: path, Message: err.Error()})
		return
	}
	for _, file := range files {
		if seen[file] {
			continue
		}
		seen[file] = true
		v.validateFile(file, result)
	}
}

// expand resolves path into flow files.
func (v *Validator) expand(path string) ([]string, error) {
	if strings.ContainsAny(path, "*?[") {
		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, fmt.Errorf("bad pattern: %v", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern matched no files")
		}
		var files []string
		for _, m := range matches {
			if IsConfigFile(m) {
				continue
			}
			more, err := v.expand(m)
			if err != nil {
				return nil, err
			}
			files = append(files, more...)
		}
		return files, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access: %v", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := collectFlowFiles(path)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %v", err)
	}
	return files, nil
}

// collectFlowFiles finds all .yaml/.yml files in a directory, skipping workspace config
// files, in lexical order.
func collectFlowFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if IsConfigFile(path) {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files, err
}

// IsConfigFile reports whether path names a workspace config file.
func IsConfigFile(path string) bool {
	base := filepath.Base(path)
	return base == "config.yaml" || base == "config.yml"
}

// validateFile parses one file and applies the tag filter.
func (v *Validator) validateFile(filePath string, result *Result) {
	f, err := flow.ParseFile(filePath)
	if err != nil {
		result.Errors = append(result.Errors, &ValidationError{
			File:    filePath,
			Message: fmt.Sprintf("parse error: %v", err),
		})
		return
	}

	if len(f.Steps) == 0 && f.Config.URL == "" {
		result.Errors = append(result.Errors, &ValidationError{
			File:    filePath,
			Message: "flow has no steps",
		})
		return
	}

	if !flow.ShouldIncludeFlow(f, v.includeTags, v.excludeTags) {
		result.Excluded++
		return
	}

	result.Flows = append(result.Flows, f)
	result.Files = append(result.Files, filePath)
}
