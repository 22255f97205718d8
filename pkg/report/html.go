package report

import (
	"bytes"
	"html/template"
	"time"

	"github.com/devicelab-dev/webelement/pkg/core"
)

// htmlData contains all data needed for the HTML template.
type htmlData struct {
	Title       string
	GeneratedAt string
	Suite       *core.SuiteResult
}

var htmlFuncs = template.FuncMap{
	"ms": func(d time.Duration) string {
		return d.Round(time.Millisecond).String()
	},
	"statusClass": func(s core.StepStatus) string {
		switch s {
		case core.StatusPassed:
			return "passed"
		case core.StatusWarned:
			return "warned"
		case core.StatusSkipped:
			return "skipped"
		default:
			return "failed"
		}
	},
}

var htmlTmpl = template.Must(template.New("report").Funcs(htmlFuncs).Parse(htmlTemplate))

// WriteHTML writes a self-contained HTML report.
func WriteHTML(path string, suite *core.SuiteResult, cfg Config) error {
	data, err := RenderHTML(suite, cfg)
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

// RenderHTML renders the suite as a standalone HTML page.
func RenderHTML(suite *core.SuiteResult, cfg Config) ([]byte, error) {
	if cfg.Title == "" {
		cfg.Title = "Test Report"
	}
	var buf bytes.Buffer
	err := htmlTmpl.Execute(&buf, htmlData{
		Title:       cfg.Title,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Suite:       suite,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        :root {
            --border-color: #e5e7eb;
            --text-muted: rgb(107, 114, 128);
            --passed: #22c55e;
            --failed: #ef4444;
            --skipped: #eab308;
            --warned: #f97316;
        }
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 24px; color: #000; }
        header { display: flex; justify-content: space-between; align-items: baseline; }
        .muted { color: var(--text-muted); font-size: 13px; }
        .summary span { margin-right: 16px; }
        details { border: 1px solid var(--border-color); border-radius: 6px; margin: 8px 0; padding: 8px 12px; }
        summary { cursor: pointer; font-weight: 600; }
        table { border-collapse: collapse; width: 100%; margin-top: 8px; font-size: 13px; }
        td { border-top: 1px solid var(--border-color); padding: 4px 8px; vertical-align: top; }
        .dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-right: 6px; }
        .passed .dot, .dot.passed { background: var(--passed); }
        .failed .dot, .dot.failed { background: var(--failed); }
        .skipped .dot, .dot.skipped { background: var(--skipped); }
        .warned .dot, .dot.warned { background: var(--warned); }
        .error { color: var(--failed); white-space: pre-wrap; }
    </style>
</head>
<body>
    <header>
        <h1>{{.Title}}</h1>
        <span class="muted">{{.GeneratedAt}}</span>
    </header>
    <div class="summary">
        <span><span class="dot passed"></span>{{.Suite.PassedFlows}} passed</span>
        <span><span class="dot failed"></span>{{.Suite.FailedFlows}} failed</span>
        <span><span class="dot skipped"></span>{{.Suite.SkippedFlows}} skipped</span>
        <span class="muted">{{.Suite.TotalFlows}} flows in {{ms .Suite.Duration}}</span>
    </div>
    {{range .Suite.Flows}}
    <details class="{{statusClass .Status}}"{{if eq (statusClass .Status) "failed"}} open{{end}}>
        <summary><span class="dot"></span>{{.Name}} <span class="muted">{{.FilePath}} · {{.TotalSteps}} steps · {{ms .Duration}}</span></summary>
        {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
        <table>
            {{range .Steps}}
            <tr class="{{statusClass .Status}}">
                <td><span class="dot"></span>{{.Index}}</td>
                <td>{{if .Label}}{{.Label}}{{else}}{{.Command}}{{end}}</td>
                <td class="muted">{{.Target}}</td>
                <td class="muted">{{ms .Duration}}</td>
                <td>{{if .Error}}<span class="error">{{.Error}}</span>{{else}}{{.Message}}{{end}}</td>
            </tr>
            {{end}}
        </table>
    </details>
    {{end}}
</body>
</html>
`
