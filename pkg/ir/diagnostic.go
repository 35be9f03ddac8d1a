package ir

import "fmt"

// Severity is the diagnostic taxonomy shared by the Validator, Analyzer,
// Phase Runner, and Plugin System (spec.md §7).
type Severity string

const (
	SeverityFatal Severity = "fatal"
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
	SeverityInfo  Severity = "info"
)

// Diagnostic is one structured entry produced by validation or analysis.
type Diagnostic struct {
	Severity   Severity
	ModelName  string
	FieldName  string
	Rule       string
	Message    string
	Suggestion string
}

func (d Diagnostic) String() string {
	loc := d.ModelName
	if d.FieldName != "" {
		loc = fmt.Sprintf("%s.%s", d.ModelName, d.FieldName)
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Rule, d.Message)
	}
	return fmt.Sprintf("[%s] %s (%s): %s", d.Severity, d.Rule, loc, d.Message)
}

// Diagnostics groups the Validator's output by severity, per spec.md §4.1.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

func (d *Diagnostics) push(diag Diagnostic) {
	switch diag.Severity {
	case SeverityFatal, SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarn:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// HasErrors reports whether any fatal or error diagnostic was recorded.
func (d *Diagnostics) HasErrors() bool { return len(d.Errors) > 0 }

// HasFatal reports whether any fatal diagnostic was recorded.
func (d *Diagnostics) HasFatal() bool {
	for _, e := range d.Errors {
		if e.Severity == SeverityFatal {
			return true
		}
	}
	return false
}

// InvalidSchema is returned by Validate when throwOnError is set and the
// schema carries at least one error-or-worse diagnostic.
type InvalidSchema struct {
	Diagnostics Diagnostics
}

func (e *InvalidSchema) Error() string {
	return fmt.Sprintf("ir: schema invalid: %d error(s), first: %s", len(e.Diagnostics.Errors), e.Diagnostics.Errors[0])
}
