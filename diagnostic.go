package blogmark

import (
	"fmt"

	"github.com/alnah/go-blogmark/internal/lint"
)

// Severity grades a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a positioned style finding. Lines and columns are 1-based;
// columns count characters.
type Diagnostic struct {
	RuleID    string   `json:"rule"`
	Severity  Severity `json:"severity"`
	Reason    string   `json:"reason"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	EndLine   int      `json:"endLine"`
	EndColumn int      `json:"endColumn"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d %s %s (%s)", d.Line, d.Column, d.Severity, d.Reason, d.RuleID)
}

// Rule describes a lint rule.
type Rule struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Summary  string   `json:"summary"`
}

// Rules returns every lint rule in evaluation order.
func Rules() []Rule {
	rules := lint.Rules()
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{ID: r.ID, Severity: Severity(r.Severity), Summary: r.Summary}
	}
	return out
}

func convertDiagnostics(in []lint.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, len(in))
	for i, d := range in {
		out[i] = Diagnostic{
			RuleID:    d.RuleID,
			Severity:  Severity(d.Severity),
			Reason:    d.Reason,
			Line:      d.Pos.Start.Line,
			Column:    d.Pos.Start.Column,
			EndLine:   d.Pos.End.Line,
			EndColumn: d.Pos.End.Column,
		}
	}
	return out
}
