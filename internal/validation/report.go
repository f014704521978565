package validation

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"remit835/internal/redact"
)

// maxSamplesPerType caps how many findings of one type the reports list.
const maxSamplesPerType = 10

// ReportOptions controls report rendering.
type ReportOptions struct {
	// Redact masks claim identifiers in the listed samples.
	Redact bool
	// GeneratedAt defaults to time.Now when zero.
	GeneratedAt time.Time
}

func (o ReportOptions) generatedAt() time.Time {
	if o.GeneratedAt.IsZero() {
		return time.Now()
	}
	return o.GeneratedAt
}

func sampleIssue(issue Issue, redactIDs bool) Issue {
	if redactIDs && issue.ClaimID != "" {
		issue.ClaimID = redact.String(issue.ClaimID)
	}
	return issue
}

// TextReport renders the executive summary and the per-type detail listing.
func TextReport(r *Result, opts ReportOptions) string {
	var b strings.Builder

	b.WriteString("VALIDATION REPORT - ZERO FAIL MODE\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", opts.generatedAt().Format("2006-01-02 15:04:05"))

	status := "PASS"
	if !r.Passed() {
		status = "FAIL"
	}
	fmt.Fprintf(&b, "Result:          %s\n", status)
	fmt.Fprintf(&b, "Files checked:   %d\n", r.FilesChecked)
	fmt.Fprintf(&b, "Claims checked:  %d\n", r.ClaimsChecked)
	fmt.Fprintf(&b, "Service lines:   %d\n", r.LinesChecked)
	fmt.Fprintf(&b, "Output rows:     %d\n", r.RowCount)
	fmt.Fprintf(&b, "Errors:          %d\n", r.ErrorCount())
	fmt.Fprintf(&b, "Warnings:        %d\n", r.WarningCount())

	order, grouped := r.ByType()
	for _, issueType := range order {
		issues := grouped[issueType]
		b.WriteString("\n" + issueType + " (" + fmt.Sprint(len(issues)) + ")\n")
		b.WriteString(strings.Repeat("-", 50) + "\n")
		for i, issue := range issues {
			if i == maxSamplesPerType {
				fmt.Fprintf(&b, "  ... and %d more\n", len(issues)-maxSamplesPerType)
				break
			}
			b.WriteString("  " + sampleIssue(issue, opts.Redact).String() + "\n")
		}
	}

	if len(r.DateSurvey) > 0 {
		b.WriteString("\nDATE FORMATS\n")
		b.WriteString(strings.Repeat("-", 50) + "\n")
		for _, col := range sortedKeys(r.DateSurvey) {
			byLayout := r.DateSurvey[col]
			parts := make([]string, 0, len(byLayout))
			for _, layout := range sortedKeys(byLayout) {
				parts = append(parts, fmt.Sprintf("%s=%d", layout, byLayout[layout]))
			}
			fmt.Fprintf(&b, "  %s: %s\n", col, strings.Join(parts, ", "))
		}
	}
	return b.String()
}

var htmlReportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>835 Validation Report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
.summary td { padding: 2px 12px 2px 0; }
.pass { color: #1a7f37; font-weight: bold; }
.fail { color: #b42318; font-weight: bold; }
table.issues { border-collapse: collapse; margin-top: 1em; width: 100%; }
table.issues th, table.issues td { border: 1px solid #ddd; padding: 4px 8px; text-align: left; font-size: 0.9em; }
.ERROR { background: #fdecea; }
.WARNING { background: #fff8e1; }
</style>
</head>
<body>
<h1>835 Validation Report</h1>
<p>Generated {{.Generated}}</p>
<p>Status: <span class="{{if .Passed}}pass{{else}}fail{{end}}">{{if .Passed}}PASS{{else}}FAIL{{end}}</span></p>
<table class="summary">
<tr><td>Files checked</td><td>{{.Result.FilesChecked}}</td></tr>
<tr><td>Claims checked</td><td>{{.Result.ClaimsChecked}}</td></tr>
<tr><td>Service lines</td><td>{{.Result.LinesChecked}}</td></tr>
<tr><td>Output rows</td><td>{{.Result.RowCount}}</td></tr>
<tr><td>Errors</td><td>{{.Errors}}</td></tr>
<tr><td>Warnings</td><td>{{.Warnings}}</td></tr>
</table>
{{range .Sections}}
<h2>{{.Type}} ({{.Total}})</h2>
<table class="issues">
<tr><th>Severity</th><th>File</th><th>Claim</th><th>Message</th><th>Expected</th><th>Actual</th></tr>
{{range .Issues}}<tr class="{{.Severity}}"><td>{{.Severity}}</td><td>{{.File}}</td><td>{{.ClaimID}}</td><td>{{.Message}}</td><td>{{.Expected}}</td><td>{{.Actual}}</td></tr>
{{end}}</table>
{{if .Truncated}}<p>... and {{.Truncated}} more</p>{{end}}
{{end}}
</body>
</html>
`))

type htmlSection struct {
	Type      string
	Total     int
	Issues    []Issue
	Truncated int
}

// HTMLReport renders the report as a standalone HTML page.
func HTMLReport(r *Result, opts ReportOptions) (string, error) {
	order, grouped := r.ByType()
	var sections []htmlSection
	for _, issueType := range order {
		issues := grouped[issueType]
		section := htmlSection{Type: issueType, Total: len(issues)}
		for i, issue := range issues {
			if i == maxSamplesPerType {
				section.Truncated = len(issues) - maxSamplesPerType
				break
			}
			section.Issues = append(section.Issues, sampleIssue(issue, opts.Redact))
		}
		sections = append(sections, section)
	}

	data := struct {
		Generated string
		Passed    bool
		Result    *Result
		Errors    int
		Warnings  int
		Sections  []htmlSection
	}{
		Generated: opts.generatedAt().Format("2006-01-02 15:04:05"),
		Passed:    r.Passed(),
		Result:    r,
		Errors:    r.ErrorCount(),
		Warnings:  r.WarningCount(),
		Sections:  sections,
	}

	var b strings.Builder
	if err := htmlReportTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
