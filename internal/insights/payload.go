package insights

import (
	"sort"

	"github.com/angelcm/ads-insights-go/internal/kpi"
	"github.com/angelcm/ads-insights-go/internal/models"
)

// Payload is the structured summary sent to the insights service: overall
// totals plus per-campaign aggregates, with the biggest spenders called
// out so the model sees where the budget actually went.
type Payload struct {
	Overview    models.KPITotals `json:"overview"`
	Campaigns   []models.KPIRow  `json:"campaigns"`
	TopSpenders []models.KPIRow  `json:"top_spenders"`
}

// BuildPayload condenses a normalized dataset into the insight payload.
func BuildPayload(ds models.Dataset) Payload {
	p := Payload{
		Overview:  kpi.Totals(ds),
		Campaigns: kpi.Aggregate(ds, kpi.GroupCampaign),
	}
	top := make([]models.KPIRow, len(p.Campaigns))
	copy(top, p.Campaigns)
	sort.Slice(top, func(i, j int) bool { return top[i].Spend > top[j].Spend })
	if len(top) > 5 {
		top = top[:5]
	}
	p.TopSpenders = top
	return p
}
