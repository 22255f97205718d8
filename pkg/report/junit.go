package report

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/devicelab-dev/webelement/pkg/core"
)

// junitSuites is the root element understood by CI test report parsers.
type junitSuites struct {
	XMLName  xml.Name     `xml:"testsuites"`
	Name     string       `xml:"name,attr"`
	Tests    int          `xml:"tests,attr"`
	Failures int          `xml:"failures,attr"`
	Skipped  int          `xml:"skipped,attr"`
	Time     string       `xml:"time,attr"`
	Suites   []junitSuite `xml:"testsuite"`
}

// junitSuite maps one flow; each step is a test case.
type junitSuite struct {
	Name      string      `xml:"name,attr"`
	File      string      `xml:"file,attr,omitempty"`
	Tests     int         `xml:"tests,attr"`
	Failures  int         `xml:"failures,attr"`
	Skipped   int         `xml:"skipped,attr"`
	Time      string      `xml:"time,attr"`
	Timestamp string      `xml:"timestamp,attr"`
	Cases     []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

type junitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// WriteJUnit writes the suite in JUnit XML format.
func WriteJUnit(path string, suite *core.SuiteResult) error {
	data, err := MarshalJUnit(suite)
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

// MarshalJUnit renders the suite as a JUnit XML document.
func MarshalJUnit(suite *core.SuiteResult) ([]byte, error) {
	root := junitSuites{
		Name: "webelement",
		Time: seconds(suite.Duration.Seconds()),
	}

	for _, f := range suite.Flows {
		js := junitSuite{
			Name:      f.Name,
			File:      f.FilePath,
			Tests:     len(f.Steps),
			Time:      seconds(f.Duration.Seconds()),
			Timestamp: f.StartTime.UTC().Format("2006-01-02T15:04:05"),
		}
		for _, s := range f.Steps {
			jc := junitCase{
				Name:      caseName(s),
				ClassName: f.Name,
				Time:      seconds(s.Duration.Seconds()),
			}
			switch s.Status {
			case core.StatusFailed, core.StatusErrored:
				jc.Failure = &junitFailure{
					Message: s.Message,
					Type:    s.Code,
					Text:    s.Error,
				}
				js.Failures++
			case core.StatusSkipped:
				jc.Skipped = &junitSkipped{Message: s.Message}
				js.Skipped++
			case core.StatusWarned:
				jc.SystemOut = "optional step failed: " + s.Error
			}
			js.Cases = append(js.Cases, jc)
		}
		root.Tests += js.Tests
		root.Failures += js.Failures
		root.Skipped += js.Skipped
		root.Suites = append(root.Suites, js)
	}

	out, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// caseName is "<index> <command> <target>", or the label when one is set.
func caseName(s core.StepResult) string {
	if s.Label != "" {
		return fmt.Sprintf("%d %s", s.Index, s.Label)
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s %s", s.Index, s.Command, s.Target))
}

func seconds(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
