package project

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/robert-at-pretension-io/vhdp-lint/internal/analyzer"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/config"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/facts"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/policy"
	"github.com/robert-at-pretension-io/vhdp-lint/internal/validator"
)

// Diagnostic is a finding as reported to users, with 1-based positions and
// its rule id.
type Diagnostic struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	EndLine  int    `json:"endLine"`
	EndCol   int    `json:"endCol"`
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Phase    string `json:"phase"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]", d.File, d.Line, d.Col, d.Severity, d.Message, d.Rule)
}

// LintOutput is the JSON document printed by vhdp-lint -json.
type LintOutput struct {
	Files       int          `json:"files"`
	Errors      int          `json:"errors"`
	Warnings    int          `json:"warnings"`
	Hints       int          `json:"hints"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

func fromAnalyzer(file string, ds []analyzer.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(ds))
	for _, d := range ds {
		out = append(out, Diagnostic{
			File:     file,
			Line:     d.Start.Line + 1,
			Col:      d.Start.Col + 1,
			EndLine:  d.End.Line + 1,
			EndCol:   d.End.Col + 1,
			Severity: d.Severity.String(),
			Rule:     config.RuleForMessage(d.Message),
			Message:  d.Message,
			Phase:    d.Phase.String(),
		})
	}
	return out
}

func fromViolation(v policy.Violation) Diagnostic {
	line := v.Line
	if line < 1 {
		line = 1
	}
	return Diagnostic{
		File:     v.File,
		Line:     line,
		Col:      1,
		EndLine:  line,
		EndCol:   1,
		Severity: v.Severity,
		Rule:     config.PolicyRulePrefix + v.Rule,
		Message:  v.Message,
		Phase:    "policy",
	}
}

// applyRules rewrites severities from lint.rules and drops findings whose
// rule is switched off.
func applyRules(cfg *config.Config, diags []Diagnostic) []Diagnostic {
	out := diags[:0:0]
	for _, d := range diags {
		sev := cfg.GetRuleSeverity(d.Rule, d.Severity)
		if sev == "off" {
			continue
		}
		d.Severity = sev
		out = append(out, d)
	}
	return out
}

func diagnosticRows(diags []Diagnostic) []facts.DiagnosticRow {
	rows := make([]facts.DiagnosticRow, 0, len(diags))
	for _, d := range diags {
		rows = append(rows, facts.DiagnosticRow{
			File:     d.File,
			Line:     d.Line,
			Col:      d.Col,
			Severity: d.Severity,
			Rule:     d.Rule,
			Message:  d.Message,
		})
	}
	return rows
}

func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
}

// Output converts the result to its JSON form.
func (r *Result) Output() LintOutput {
	diags := r.Diagnostics
	if diags == nil {
		diags = []Diagnostic{}
	}
	return LintOutput{
		Files:       r.Summary.Files,
		Errors:      r.Summary.Errors,
		Warnings:    r.Summary.Warnings,
		Hints:       r.Summary.Hints,
		Diagnostics: diags,
	}
}

// WriteText prints one line per diagnostic followed by a summary line.
func WriteText(w io.Writer, r *Result) error {
	for _, d := range r.Diagnostics {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
	}
	for _, f := range r.Files {
		if f.Err != nil {
			if _, err := fmt.Fprintf(w, "%s: error: %v\n", f.Path, f.Err); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d files: %d errors, %d warnings, %d hints\n",
		r.Summary.Files, r.Summary.Errors, r.Summary.Warnings, r.Summary.Hints)
	return err
}

// WriteJSON validates the output document against its schema and writes it.
func WriteJSON(w io.Writer, r *Result) error {
	out := r.Output()
	v, err := validator.NewOutputValidator()
	if err != nil {
		return fmt.Errorf("initialize output validator: %w", err)
	}
	if err := v.Validate(out); err != nil {
		return fmt.Errorf("output contract violation: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
