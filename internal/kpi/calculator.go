// Package kpi derives the standard advertising ratios from a normalized
// dataset. Pure functions; the dataset is never modified.
//
// Ratios with a zero denominator come back undefined rather than zero or
// infinite, so "no performance" and "no denominator" stay distinguishable.
// Aggregation always sums numerators and denominators per group before
// dividing; averaging per-row ratios distorts mixed groups.
package kpi

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelcm/ads-insights-go/internal/models"
)

type GroupBy int

const (
	GroupRow GroupBy = iota
	GroupCampaign
	GroupDate
	GroupAccount
)

func ParseGroupBy(s string) (GroupBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "row":
		return GroupRow, nil
	case "campaign":
		return GroupCampaign, nil
	case "date":
		return GroupDate, nil
	case "account":
		return GroupAccount, nil
	}
	return GroupRow, fmt.Errorf("unknown group_by %q", s)
}

// Compute returns one KPI row per record.
func Compute(ds models.Dataset) []models.KPIRow {
	out := make([]models.KPIRow, 0, len(ds.Records))
	for _, r := range ds.Records {
		row := models.KPIRow{
			Date:         r.Date.Format("2006-01-02"),
			AccountID:    r.AccountID,
			CampaignID:   r.CampaignID,
			CampaignName: r.CampaignName,
			AdID:         r.AdID,
			Spend:        r.Spend,
			Impressions:  r.Impressions,
			Clicks:       r.Clicks,
			Purchases:    r.Purchases,
			Revenue:      r.Revenue,
		}
		fillRatios(&row)
		out = append(out, row)
	}
	return out
}

// Aggregate groups the dataset and computes KPIs on the summed totals.
func Aggregate(ds models.Dataset, by GroupBy) []models.KPIRow {
	if by == GroupRow {
		return Compute(ds)
	}

	type bucket struct {
		row       models.KPIRow
		dateMin   time.Time
		dateMax   time.Time
		campaigns map[string]struct{}
	}
	buckets := make(map[string]*bucket)

	for _, r := range ds.Records {
		var key string
		switch by {
		case GroupCampaign:
			key = r.CampaignID
		case GroupDate:
			key = r.Date.Format("2006-01-02")
		case GroupAccount:
			key = r.AccountID
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{campaigns: make(map[string]struct{})}
			switch by {
			case GroupCampaign:
				b.row.CampaignID = r.CampaignID
				b.row.CampaignName = r.CampaignName
			case GroupDate:
				b.row.Date = key
			case GroupAccount:
				b.row.AccountID = r.AccountID
			}
			b.dateMin, b.dateMax = r.Date, r.Date
			buckets[key] = b
		}
		b.row.Spend += r.Spend
		b.row.Impressions += r.Impressions
		b.row.Clicks += r.Clicks
		b.row.Purchases += r.Purchases
		b.row.Revenue += r.Revenue
		b.campaigns[r.CampaignID] = struct{}{}
		if r.Date.Before(b.dateMin) {
			b.dateMin = r.Date
		}
		if r.Date.After(b.dateMax) {
			b.dateMax = r.Date
		}
	}

	out := make([]models.KPIRow, 0, len(buckets))
	for _, b := range buckets {
		switch by {
		case GroupCampaign, GroupAccount:
			b.row.DateStart = b.dateMin.Format("2006-01-02")
			b.row.DateEnd = b.dateMax.Format("2006-01-02")
		case GroupDate:
			b.row.Campaigns = len(b.campaigns)
		}
		fillRatios(&b.row)
		out = append(out, b.row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].CampaignID != out[j].CampaignID {
			return out[i].CampaignID < out[j].CampaignID
		}
		return out[i].AccountID < out[j].AccountID
	})
	return out
}

// Totals sums the whole dataset and computes the overall ratios.
func Totals(ds models.Dataset) models.KPITotals {
	t := models.KPITotals{Records: len(ds.Records)}
	campaigns := make(map[string]struct{})
	accounts := make(map[string]struct{})
	var dMin, dMax time.Time
	for i, r := range ds.Records {
		t.Spend += r.Spend
		t.Impressions += r.Impressions
		t.Clicks += r.Clicks
		t.Purchases += r.Purchases
		t.Revenue += r.Revenue
		campaigns[r.CampaignID] = struct{}{}
		accounts[r.AccountID] = struct{}{}
		if i == 0 || r.Date.Before(dMin) {
			dMin = r.Date
		}
		if i == 0 || r.Date.After(dMax) {
			dMax = r.Date
		}
	}
	t.Campaigns = len(campaigns)
	t.Accounts = len(accounts)
	if t.Records > 0 {
		t.DateStart = dMin.Format("2006-01-02")
		t.DateEnd = dMax.Format("2006-01-02")
	}
	t.CTR = round4(div(float64(t.Clicks), float64(t.Impressions)))
	t.CPC = round3(div(t.Spend, float64(t.Clicks)))
	t.CPM = round2(scale(div(t.Spend, float64(t.Impressions)), 1000))
	t.CPA = round2(div(t.Spend, float64(t.Purchases)))
	t.ROAS = round2(div(t.Revenue, t.Spend))
	t.CVR = round4(div(float64(t.Purchases), float64(t.Clicks)))
	return t
}

func fillRatios(row *models.KPIRow) {
	spend := row.Spend
	imps := float64(row.Impressions)
	clicks := float64(row.Clicks)
	purchases := float64(row.Purchases)
	revenue := row.Revenue

	row.CPC = round3(div(spend, clicks))
	row.CPM = round2(scale(div(spend, imps), 1000))
	row.CTR = round4(div(clicks, imps))
	row.CPA = round2(div(spend, purchases))
	row.ROAS = round2(div(revenue, spend))
	row.CVR = round4(div(purchases, clicks))

	row.Frequency = round2(div(imps, clicks))
	row.CostPerImpression = round4(div(spend, imps))
	row.RevenuePerImpression = round4(div(revenue, imps))
	row.RevenuePerClick = round3(div(revenue, clicks))
	row.PurchaseRate = round4(div(purchases, imps))
	row.AOV = round2(div(revenue, purchases))
}

func div(num, den float64) models.Ratio {
	if den == 0 {
		return models.UndefinedRatio()
	}
	return models.DefinedRatio(num / den)
}

func scale(r models.Ratio, by float64) models.Ratio {
	if !r.Defined {
		return r
	}
	return models.DefinedRatio(r.Value * by)
}

func roundN(r models.Ratio, unit float64) models.Ratio {
	if !r.Defined {
		return r
	}
	v := r.Value * unit
	if v >= 0 {
		v += 0.5
	} else {
		v -= 0.5
	}
	return models.DefinedRatio(float64(int64(v)) / unit)
}

func round2(r models.Ratio) models.Ratio { return roundN(r, 100) }
func round3(r models.Ratio) models.Ratio { return roundN(r, 1000) }
func round4(r models.Ratio) models.Ratio { return roundN(r, 10000) }
