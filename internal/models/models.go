package models

import (
	"encoding/json"
	"time"
)

// CampaignRecord is one row of normalized campaign data:
// (account, campaign, ad, date) plus delivery and conversion counters.
type CampaignRecord struct {
	AccountID    string    `json:"account_id"`
	CampaignID   string    `json:"campaign_id"`
	Date         time.Time `json:"date"`
	Spend        float64   `json:"spend"`
	Impressions  int       `json:"impressions"`
	Clicks       int       `json:"clicks"`
	Purchases    int       `json:"purchases"`
	Revenue      float64   `json:"revenue"`
	AdID         string    `json:"ad_id,omitempty"`
	AdName       string    `json:"ad_name,omitempty"`
	CampaignName string    `json:"campaign_name,omitempty"`
	Objective    string    `json:"objective,omitempty"`
	CreativeID   string    `json:"creative_id,omitempty"`

	// SourceRow is the record's row index in the uploaded table, so
	// flags keep pointing at the input even after rows get dropped.
	SourceRow int `json:"-"`
}

// Table is a raw tabular payload as produced by a source adapter,
// before any alias mapping or coercion.
type Table struct {
	Headers []string
	Rows    [][]string
}

// RowFlag records a per-row problem found while normalizing.
type RowFlag struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// Dataset is the normalized table plus whatever got flagged on the way.
type Dataset struct {
	Records []CampaignRecord `json:"records"`
	Flags   []RowFlag        `json:"flags,omitempty"`
	Dropped int              `json:"dropped"`
}

// Ratio is a division result that distinguishes "denominator was zero"
// from an actual zero value. Undefined marshals as JSON null.
type Ratio struct {
	Value   float64
	Defined bool
}

func DefinedRatio(v float64) Ratio { return Ratio{Value: v, Defined: true} }
func UndefinedRatio() Ratio        { return Ratio{} }

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

func (r *Ratio) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Ratio{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = Ratio{Value: v, Defined: true}
	return nil
}

// KPIRow is one row of the metrics table, per-record or aggregated.
type KPIRow struct {
	Date         string `json:"date,omitempty"`
	DateStart    string `json:"date_start,omitempty"`
	DateEnd      string `json:"date_end,omitempty"`
	AccountID    string `json:"account_id,omitempty"`
	CampaignID   string `json:"campaign_id,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
	AdID         string `json:"ad_id,omitempty"`
	Campaigns    int    `json:"active_campaigns,omitempty"`

	Spend       float64 `json:"spend"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	Purchases   int     `json:"purchases"`
	Revenue     float64 `json:"revenue"`

	CPC  Ratio `json:"cpc"`
	CPM  Ratio `json:"cpm"`
	CTR  Ratio `json:"ctr"`
	CPA  Ratio `json:"cpa"`
	ROAS Ratio `json:"roas"`
	CVR  Ratio `json:"cvr"`

	Frequency            Ratio `json:"frequency"`
	CostPerImpression    Ratio `json:"cost_per_impression"`
	RevenuePerImpression Ratio `json:"revenue_per_impression"`
	RevenuePerClick      Ratio `json:"revenue_per_click"`
	PurchaseRate         Ratio `json:"purchase_rate"`
	AOV                  Ratio `json:"aov"`
}

// KPITotals summarizes a whole dataset for reports and the insight payload.
type KPITotals struct {
	Records     int     `json:"records"`
	Campaigns   int     `json:"campaigns"`
	Accounts    int     `json:"accounts"`
	DateStart   string  `json:"date_start"`
	DateEnd     string  `json:"date_end"`
	Spend       float64 `json:"spend"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	Purchases   int     `json:"purchases"`
	Revenue     float64 `json:"revenue"`
	CTR         Ratio   `json:"ctr"`
	CPC         Ratio   `json:"cpc"`
	CPM         Ratio   `json:"cpm"`
	CPA         Ratio   `json:"cpa"`
	ROAS        Ratio   `json:"roas"`
	CVR         Ratio   `json:"cvr"`
}
