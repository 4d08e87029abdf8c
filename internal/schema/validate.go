package schema

import (
	"fmt"
	"strings"

	"github.com/angelcm/ads-insights-go/internal/errs"
	"github.com/angelcm/ads-insights-go/internal/models"
)

// Violation names a broken rule. Row is -1 for table-level problems.
type Violation struct {
	Column string `json:"column"`
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Report is the outcome of validating one raw table. Violations are fatal
// for the whole import; RowIssues are scoped to single rows and get
// enforced by the normalizer per row policy. Warnings never block.
type Report struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
	RowIssues  []Violation `json:"row_issues,omitempty"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// Err converts a failed report into a schema-violation error naming the
// offending columns. Nil when the report is valid.
func (r Report) Err() error {
	if r.Valid {
		return nil
	}
	parts := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		parts = append(parts, v.Column+": "+v.Reason)
	}
	return errs.New(errs.KindSchema, "%s", strings.Join(parts, "; "))
}

// Validate checks a raw table against the canonical schema. The raw data
// is never modified.
func Validate(t models.Table, m *Mapper) Report {
	var rep Report

	if len(t.Rows) == 0 {
		rep.Violations = append(rep.Violations, Violation{Column: "", Row: -1, Reason: "table is empty"})
		return rep
	}

	idx := m.Resolve(t.Headers)

	// columnas requeridas presentes
	for _, name := range RequiredColumns() {
		if _, ok := idx[name]; !ok {
			rep.Violations = append(rep.Violations, Violation{
				Column: name, Row: -1, Reason: "required column missing",
			})
		}
	}
	if len(rep.Violations) > 0 {
		return rep
	}

	missing := make(map[string]int)
	for _, col := range Columns {
		ci, ok := idx[col.Name]
		if !ok {
			continue
		}
		empty := 0
		for ri, row := range t.Rows {
			raw := cell(row, ci)
			if strings.TrimSpace(raw) == "" {
				empty++
				continue
			}
			if !Coercible(raw, col.Kind) {
				issue := Violation{Column: col.Name, Row: ri, Reason: "value not coercible: " + strings.TrimSpace(raw)}
				if col.Required {
					rep.RowIssues = append(rep.RowIssues, issue)
				} else {
					rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s row %d: %s", col.Name, ri, issue.Reason))
				}
				continue
			}
			if col.Kind == KindCount || col.Kind == KindCurrency {
				if v, err := ParseAmount(raw); err == nil && v < 0 && col.Name != "revenue" {
					rep.RowIssues = append(rep.RowIssues, Violation{Column: col.Name, Row: ri, Reason: "negative value"})
				}
			}
		}
		missing[col.Name] = empty
		if col.Required && empty == len(t.Rows) {
			rep.Violations = append(rep.Violations, Violation{
				Column: col.Name, Row: -1, Reason: "required column is entirely empty",
			})
		}
		if col.Required && empty > 0 && empty < len(t.Rows) {
			for ri, row := range t.Rows {
				if strings.TrimSpace(cell(row, ci)) == "" {
					rep.RowIssues = append(rep.RowIssues, Violation{Column: col.Name, Row: ri, Reason: "required value empty"})
				}
			}
		}
	}
	if len(rep.Violations) > 0 {
		return rep
	}

	// clicks > impressions es imposible; se reporta y el normalizador recorta
	ci, cok := idx["clicks"]
	ii, iok := idx["impressions"]
	if cok && iok {
		for ri, row := range t.Rows {
			c, err1 := ParseCount(cell(row, ci))
			im, err2 := ParseCount(cell(row, ii))
			if err1 == nil && err2 == nil && c > im {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("row %d: clicks (%d) exceed impressions (%d)", ri, c, im))
			}
		}
	}

	// filas repetidas completas; el normalizador las elimina después
	seen := make(map[string]int, len(t.Rows))
	dupes := 0
	for _, row := range t.Rows {
		k := strings.Join(row, "\x1f")
		if seen[k] > 0 {
			dupes++
		}
		seen[k]++
	}
	if dupes > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d duplicate rows found", dupes))
	}

	// calidad de datos: faltantes y CPC fuera de rango
	for _, col := range Columns {
		if _, ok := idx[col.Name]; !ok {
			continue
		}
		if n := missing[col.Name]; n*10 > len(t.Rows) {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s has %d/%d missing values", col.Name, n, len(t.Rows)))
		}
	}
	si, sok := idx["spend"]
	if sok && cok {
		high := 0
		for _, row := range t.Rows {
			sp, err1 := ParseAmount(cell(row, si))
			c, err2 := ParseCount(cell(row, ci))
			if err1 == nil && err2 == nil && c > 0 && sp/float64(c) > 100 {
				high++
			}
		}
		if high > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d rows with CPC above 100, possible data quality issue", high))
		}
	}

	rep.Valid = true
	return rep
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
