// Package normalize turns a raw source table into a Dataset: headers
// reconciled to the canonical schema, values coerced to their types, and
// the source's inconsistencies repaired or flagged.
package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/angelcm/ads-insights-go/internal/errs"
	"github.com/angelcm/ads-insights-go/internal/models"
	"github.com/angelcm/ads-insights-go/internal/schema"
)

// Policy decides what happens to a row whose value will not coerce.
type Policy int

const (
	// DropRow rejects the whole row and records a flag.
	DropRow Policy = iota
	// ZeroFill nulls unparseable optional numerics to zero; rows with
	// unparseable required fields are still dropped.
	ZeroFill
	// Abort fails the entire import on the first bad row.
	Abort
)

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return DropRow, nil
	case "zero":
		return ZeroFill, nil
	case "abort":
		return Abort, nil
	}
	return DropRow, fmt.Errorf("unknown row policy %q", s)
}

type Options struct {
	Policy Policy
	Mapper *schema.Mapper
}

// Normalize validates headers, coerces every row and applies the
// consistency fixes. The input table is not modified.
func Normalize(t models.Table, opts Options) (models.Dataset, error) {
	m := opts.Mapper
	if m == nil {
		m = schema.NewMapper(nil)
	}

	rep := schema.Validate(t, m)
	if err := rep.Err(); err != nil {
		return models.Dataset{}, err
	}

	idx := m.Resolve(t.Headers)
	ds := models.Dataset{Records: make([]models.CampaignRecord, 0, len(t.Rows))}

	for ri, row := range t.Rows {
		if blankRow(row) {
			continue
		}
		rec, flags, ok := coerceRow(row, ri, idx, opts.Policy)
		if len(flags) > 0 {
			if opts.Policy == Abort {
				f := flags[0]
				return models.Dataset{}, errs.New(errs.KindCoercion, "row %d column %s: %s", f.Row, f.Column, f.Reason)
			}
			ds.Flags = append(ds.Flags, flags...)
		}
		if !ok {
			ds.Dropped++
			continue
		}
		ds.Records = append(ds.Records, rec)
	}

	fixConsistency(&ds)
	dedupe(&ds)
	fillGenerated(&ds)

	// orden determinista: fecha, luego campaña
	sort.SliceStable(ds.Records, func(i, j int) bool {
		a, b := ds.Records[i], ds.Records[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.CampaignName < b.CampaignName
	})

	return ds, nil
}

func coerceRow(row []string, ri int, idx map[string]int, pol Policy) (models.CampaignRecord, []models.RowFlag, bool) {
	rec := models.CampaignRecord{SourceRow: ri}
	var flags []models.RowFlag
	ok := true

	// una fila corta (celdas finales vacías recortadas por el lector)
	// cuenta como celdas vacías, no como columnas ausentes
	get := func(name string) (string, bool) {
		i, present := idx[name]
		if !present {
			return "", false
		}
		if i >= len(row) {
			return "", true
		}
		return strings.TrimSpace(row[i]), true
	}
	fail := func(col, reason string, required bool) {
		flags = append(flags, models.RowFlag{Row: ri, Column: col, Reason: reason})
		if required || pol == DropRow {
			ok = false
		}
	}

	for _, col := range schema.Columns {
		raw, present := get(col.Name)
		if !present {
			continue
		}
		if raw == "" {
			if col.Required {
				fail(col.Name, "required value empty", true)
			}
			continue
		}
		switch col.Kind {
		case schema.KindString:
			setString(&rec, col.Name, raw)
		case schema.KindDate:
			d, err := schema.ParseDate(raw)
			if err != nil {
				fail(col.Name, "invalid date: "+raw, true)
				continue
			}
			rec.Date = d
		case schema.KindCurrency:
			v, err := schema.ParseAmount(raw)
			if err != nil {
				fail(col.Name, "invalid amount: "+raw, col.Required)
				continue
			}
			setAmount(&rec, col.Name, maxf(v))
		case schema.KindCount:
			v, err := schema.ParseCount(raw)
			if err != nil {
				fail(col.Name, "invalid count: "+raw, col.Required)
				continue
			}
			setCount(&rec, col.Name, max0(v))
		}
	}
	return rec, flags, ok
}

func setString(rec *models.CampaignRecord, name, v string) {
	switch name {
	case "account_id":
		rec.AccountID = v
	case "campaign_id":
		rec.CampaignID = v
	case "ad_id":
		rec.AdID = v
	case "ad_name":
		rec.AdName = v
	case "campaign_name":
		rec.CampaignName = v
	case "objective":
		rec.Objective = v
	case "creative_id":
		rec.CreativeID = v
	}
}

func setAmount(rec *models.CampaignRecord, name string, v float64) {
	switch name {
	case "spend":
		rec.Spend = v
	case "revenue":
		rec.Revenue = v
	}
}

func setCount(rec *models.CampaignRecord, name string, v int) {
	switch name {
	case "impressions":
		rec.Impressions = v
	case "clicks":
		rec.Clicks = v
	case "purchases":
		rec.Purchases = v
	}
}

// fixConsistency repairs relationships the exports get wrong: clicks above
// impressions get clamped, and revenue without purchases implies at least
// one purchase.
func fixConsistency(ds *models.Dataset) {
	for i := range ds.Records {
		r := &ds.Records[i]
		if r.Clicks > r.Impressions {
			ds.Flags = append(ds.Flags, models.RowFlag{
				Row: r.SourceRow, Column: "clicks",
				Reason: fmt.Sprintf("clicks (%d) clamped to impressions (%d)", r.Clicks, r.Impressions),
			})
			r.Clicks = r.Impressions
		}
		if r.Revenue > 0 && r.Purchases == 0 {
			r.Purchases = 1
			ds.Flags = append(ds.Flags, models.RowFlag{Row: r.SourceRow, Column: "purchases", Reason: "set to 1 for row with revenue"})
		}
	}
}

// fillGenerated derives ids the source did not carry, the way the Meta
// exports are patched up downstream.
func fillGenerated(ds *models.Dataset) {
	for i := range ds.Records {
		r := &ds.Records[i]
		if r.AccountID == "" {
			r.AccountID = "account_001"
		}
		if r.CampaignID == "" && r.CampaignName != "" {
			r.CampaignID = strings.ToLower(strings.ReplaceAll(r.CampaignName, " ", "_"))
		}
		if r.AdID == "" && r.CampaignID != "" {
			r.AdID = fmt.Sprintf("%s_ad_%d", r.CampaignID, i)
		}
	}
}

// dedupe drops exact repeats of (campaign, date, ad), keeping the first.
func dedupe(ds *models.Dataset) {
	seen := make(map[string]struct{}, len(ds.Records))
	out := ds.Records[:0]
	for _, r := range ds.Records {
		camp := r.CampaignID
		if camp == "" {
			camp = r.CampaignName
		}
		key := camp + "|" + r.Date.Format("2006-01-02") + "|" + r.AdID
		if _, ok := seen[key]; ok {
			ds.Dropped++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	ds.Records = out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
