package insights

import (
	"fmt"
	"strings"
)

// BasicInsights builds a plain-text performance summary from the payload
// when the external service is unreachable. Same sections the service is
// prompted for, minus the narrative.
func BasicInsights(p Payload) string {
	var b strings.Builder
	o := p.Overview

	b.WriteString("# Campaign Performance Analysis (Basic Insights)\n\n")
	b.WriteString("## Campaign Overview\n")
	fmt.Fprintf(&b, "- Total Campaigns: %d\n", o.Campaigns)
	fmt.Fprintf(&b, "- Total Records: %d\n", o.Records)
	if o.DateStart != "" {
		fmt.Fprintf(&b, "- Date Range: %s to %s\n", o.DateStart, o.DateEnd)
	}
	fmt.Fprintf(&b, "- Total Spend: %.2f\n", o.Spend)
	fmt.Fprintf(&b, "- Total Impressions: %d\n", o.Impressions)
	fmt.Fprintf(&b, "- Total Clicks: %d\n", o.Clicks)
	fmt.Fprintf(&b, "- Total Conversions: %d\n", o.Purchases)

	b.WriteString("\n## Key Performance Metrics\n")
	writeRatio(&b, "Overall CTR (Click-Through Rate)", o.CTR.Value*100, o.CTR.Defined, "%.2f%%")
	writeRatio(&b, "Overall CPC (Cost Per Click)", o.CPC.Value, o.CPC.Defined, "%.2f")
	writeRatio(&b, "Overall CPM (Cost Per 1000 Impressions)", o.CPM.Value, o.CPM.Defined, "%.2f")
	writeRatio(&b, "Overall CPA (Cost Per Acquisition)", o.CPA.Value, o.CPA.Defined, "%.2f")
	writeRatio(&b, "Overall ROAS (Return On Ad Spend)", o.ROAS.Value, o.ROAS.Defined, "%.2fx")
	writeRatio(&b, "Overall CVR (Conversion Rate)", o.CVR.Value*100, o.CVR.Defined, "%.2f%%")

	if len(p.TopSpenders) > 0 {
		b.WriteString("\n## Top Campaigns by Spend\n")
		for i, c := range p.TopSpenders {
			name := c.CampaignName
			if name == "" {
				name = c.CampaignID
			}
			fmt.Fprintf(&b, "%d. %s: %.2f\n", i+1, name, c.Spend)
		}
	}

	b.WriteString("\n## Basic Recommendations\n")
	if o.CTR.Defined && o.CTR.Value < 0.01 {
		b.WriteString("- Improve ad creative: CTR is below 1%, test new visuals and copy\n")
	}
	if o.CPC.Defined && o.CPC.Value > 50 {
		b.WriteString("- Optimize targeting: high CPC suggests the audience is too broad or too contested\n")
	}
	if o.Purchases == 0 {
		b.WriteString("- Verify conversion tracking: no conversions detected in the dataset\n")
	} else if o.CVR.Defined && o.CVR.Value < 0.01 {
		b.WriteString("- Review landing pages: conversion rate is below 1%\n")
	}
	b.WriteString("- Focus budget on the top-performing campaigns\n")
	b.WriteString("- A/B test ad variations systematically\n")

	return b.String()
}

func writeRatio(b *strings.Builder, label string, v float64, defined bool, format string) {
	if !defined {
		fmt.Fprintf(b, "- %s: n/a\n", label)
		return
	}
	fmt.Fprintf(b, "- %s: "+format+"\n", label, v)
}
