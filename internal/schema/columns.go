// Package schema holds the canonical campaign-data schema: which columns
// exist, which are required, how raw header names map onto them, and how
// raw cell values coerce into typed ones.
package schema

import "strings"

type Kind int

const (
	KindString   Kind = iota
	KindCount         // non-negative integer
	KindCurrency      // non-negative amount
	KindDate
)

type Column struct {
	Name     string
	Kind     Kind
	Required bool
}

// Columns is the canonical schema. Order matters for report output.
var Columns = []Column{
	{Name: "account_id", Kind: KindString, Required: true},
	{Name: "campaign_id", Kind: KindString, Required: true},
	{Name: "date", Kind: KindDate, Required: true},
	{Name: "spend", Kind: KindCurrency, Required: true},
	{Name: "impressions", Kind: KindCount, Required: true},
	{Name: "clicks", Kind: KindCount, Required: true},
	{Name: "purchases", Kind: KindCount},
	{Name: "revenue", Kind: KindCurrency},
	{Name: "ad_id", Kind: KindString},
	{Name: "ad_name", Kind: KindString},
	{Name: "campaign_name", Kind: KindString},
	{Name: "objective", Kind: KindString},
	{Name: "creative_id", Kind: KindString},
}

func ColumnByName(name string) (Column, bool) {
	for _, c := range Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func RequiredColumns() []string {
	var out []string
	for _, c := range Columns {
		if c.Required {
			out = append(out, c.Name)
		}
	}
	return out
}

// defaultAliases maps lowercased export header names to canonical columns.
// Seeded with the Meta campaign-export vocabulary; extend per source via
// NewMapper.
var defaultAliases = map[string]string{
	"campaign name":              "campaign_name",
	"reporting starts":           "date",
	"date_start":                 "date",
	"day":                        "date",
	"amount spent":               "spend",
	"amount spent (inr)":         "spend",
	"amount spent (usd)":         "spend",
	"spend (inr)":                "spend",
	"cost":                       "spend",
	"link clicks":                "clicks",
	"clicks (all)":               "clicks",
	"results":                    "purchases",
	"conversions":                "purchases",
	"conversion value":           "revenue",
	"purchase value":             "revenue",
	"purchases conversion value": "revenue",
	"account":                    "account_id",
	"ad account id":              "account_id",
	"campaign":                   "campaign_name",
	"ad name":                    "ad_name",
	"ad id":                      "ad_id",
	"creative":                   "creative_id",
	"creative id":                "creative_id",
	"campaign objective":         "objective",
}

// Mapper reconciles variant header names into the canonical schema.
type Mapper struct {
	aliases map[string]string
}

// NewMapper returns a Mapper with the default alias table plus extra
// per-deployment aliases (alias -> canonical name).
func NewMapper(extra map[string]string) *Mapper {
	m := &Mapper{aliases: make(map[string]string, len(defaultAliases)+len(extra))}
	for k, v := range defaultAliases {
		m.aliases[normHeader(k)] = v
	}
	for k, v := range extra {
		m.aliases[normHeader(k)] = v
	}
	return m
}

// Canonical resolves a raw header to its canonical column name. A header
// that already is a canonical name resolves to itself.
func (m *Mapper) Canonical(header string) (string, bool) {
	h := normHeader(header)
	if c, ok := m.aliases[h]; ok {
		return c, true
	}
	if _, ok := ColumnByName(h); ok {
		return h, true
	}
	return "", false
}

// Resolve maps canonical column names to their index in headers. Headers
// that resolve to nothing are left out; the first match wins on duplicates.
func (m *Mapper) Resolve(headers []string) map[string]int {
	out := make(map[string]int)
	for i, h := range headers {
		c, ok := m.Canonical(h)
		if !ok {
			continue
		}
		if _, dup := out[c]; dup {
			continue
		}
		out[c] = i
	}
	return out
}

func normHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
