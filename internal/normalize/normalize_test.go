package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelcm/ads-insights-go/internal/errs"
	"github.com/angelcm/ads-insights-go/internal/models"
)

func metaExportTable() models.Table {
	return models.Table{
		Headers: []string{"account_id", "campaign_id", "Campaign Name", "Reporting starts", "Amount Spent (INR)", "Impressions", "Link clicks", "Results"},
		Rows: [][]string{
			{"a1", "c2", "Retargeting", "2025-08-02", "₹2,500.00", "10,000", "200", "12"},
			{"a1", "c1", "Prospecting", "2025-08-01", "1000.50", "50,000", "750", "5"},
		},
	}
}

func TestNormalizeMetaExport(t *testing.T) {
	ds, err := Normalize(metaExportTable(), Options{})
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)
	assert.Zero(t, ds.Dropped)

	// orden por fecha
	first := ds.Records[0]
	assert.Equal(t, "c1", first.CampaignID)
	assert.Equal(t, "Prospecting", first.CampaignName)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 1000.50, first.Spend)
	assert.Equal(t, 50000, first.Impressions)
	assert.Equal(t, 750, first.Clicks)
	assert.Equal(t, 5, first.Purchases)

	second := ds.Records[1]
	assert.Equal(t, 2500.0, second.Spend, "currency symbol and separators must parse")
}

func TestNormalizeMissingColumnIsSchemaViolation(t *testing.T) {
	tab := metaExportTable()
	tab.Headers[6] = "???" // pierde clicks
	_, err := Normalize(tab, Options{})
	require.Error(t, err)
	assert.Equal(t, errs.KindSchema, errs.KindOf(err))
	assert.Contains(t, err.Error(), "clicks")
}

func TestNormalizeDropPolicy(t *testing.T) {
	tab := metaExportTable()
	tab.Rows[0][4] = "garbage" // spend incoercible

	ds, err := Normalize(tab, Options{Policy: DropRow})
	require.NoError(t, err)
	assert.Len(t, ds.Records, 1, "bad row dropped, good row kept")
	assert.Equal(t, 1, ds.Dropped)
	require.NotEmpty(t, ds.Flags)
	assert.Equal(t, "spend", ds.Flags[0].Column)
	assert.Equal(t, 0, ds.Flags[0].Row)
}

func TestNormalizeZeroPolicyKeepsRowForOptionalField(t *testing.T) {
	tab := metaExportTable()
	tab.Rows[0][7] = "n/a" // purchases (opcional) incoercible

	ds, err := Normalize(tab, Options{Policy: ZeroFill})
	require.NoError(t, err)
	assert.Len(t, ds.Records, 2)
	var kept models.CampaignRecord
	for _, r := range ds.Records {
		if r.CampaignID == "c2" {
			kept = r
		}
	}
	assert.Zero(t, kept.Purchases, "unparseable optional numeric nulled to 0")
	assert.NotEmpty(t, ds.Flags)
}

func TestNormalizeZeroPolicyStillDropsBadRequiredField(t *testing.T) {
	tab := metaExportTable()
	tab.Rows[0][3] = "not a date"

	ds, err := Normalize(tab, Options{Policy: ZeroFill})
	require.NoError(t, err)
	assert.Len(t, ds.Records, 1)
	assert.Equal(t, 1, ds.Dropped)
}

func TestNormalizeAbortPolicy(t *testing.T) {
	tab := metaExportTable()
	tab.Rows[1][4] = "garbage"

	_, err := Normalize(tab, Options{Policy: Abort})
	require.Error(t, err)
	assert.Equal(t, errs.KindCoercion, errs.KindOf(err))
	assert.Contains(t, err.Error(), "spend")
	assert.Contains(t, err.Error(), "row 1")
}

// shortRowTable trae una segunda fila recortada: los lectores de xlsx
// omiten las celdas finales vacías, así que clicks no llega.
func shortRowTable() models.Table {
	return models.Table{
		Headers: []string{"account_id", "campaign_id", "date", "spend", "impressions", "clicks"},
		Rows: [][]string{
			{"a1", "c1", "2025-08-01", "10", "100", "5"},
			{"a1", "c2", "2025-08-01", "20", "200"},
		},
	}
}

func TestNormalizeShortRowDropsMissingRequired(t *testing.T) {
	ds, err := Normalize(shortRowTable(), Options{Policy: DropRow})
	require.NoError(t, err)
	assert.Len(t, ds.Records, 1, "a truncated row must not pass with fabricated zeros")
	assert.Equal(t, 1, ds.Dropped)
	require.NotEmpty(t, ds.Flags)
	assert.Equal(t, "clicks", ds.Flags[0].Column)
	assert.Equal(t, 1, ds.Flags[0].Row)
	assert.Equal(t, "required value empty", ds.Flags[0].Reason)
}

func TestNormalizeShortRowStillDroppedUnderZeroFill(t *testing.T) {
	ds, err := Normalize(shortRowTable(), Options{Policy: ZeroFill})
	require.NoError(t, err)
	assert.Len(t, ds.Records, 1)
	assert.Equal(t, 1, ds.Dropped)
}

func TestNormalizeShortRowAborts(t *testing.T) {
	_, err := Normalize(shortRowTable(), Options{Policy: Abort})
	require.Error(t, err)
	assert.Equal(t, errs.KindCoercion, errs.KindOf(err))
	assert.Contains(t, err.Error(), "clicks")
	assert.Contains(t, err.Error(), "row 1")
}

func TestNormalizeShortRowKeptWhenOnlyOptionalMissing(t *testing.T) {
	tab := models.Table{
		Headers: []string{"account_id", "campaign_id", "date", "spend", "impressions", "clicks", "revenue"},
		Rows: [][]string{
			{"a1", "c1", "2025-08-01", "10", "100", "5", "250"},
			{"a1", "c2", "2025-08-01", "20", "200", "8"},
		},
	}
	ds, err := Normalize(tab, Options{Policy: DropRow})
	require.NoError(t, err)
	assert.Len(t, ds.Records, 2)
	assert.Zero(t, ds.Dropped)
}

func TestNormalizeClampsClicksToImpressions(t *testing.T) {
	tab := models.Table{
		Headers: []string{"account_id", "campaign_id", "date", "spend", "impressions", "clicks"},
		Rows:    [][]string{{"a1", "c1", "2025-08-01", "10", "100", "500"}},
	}
	ds, err := Normalize(tab, Options{})
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, 100, ds.Records[0].Clicks)

	found := false
	for _, f := range ds.Flags {
		if f.Column == "clicks" {
			found = true
		}
	}
	assert.True(t, found, "clamp must be flagged")
}

func TestNormalizeFlagsPointAtSourceRows(t *testing.T) {
	tab := models.Table{
		Headers: []string{"account_id", "campaign_id", "date", "spend", "impressions", "clicks"},
		Rows: [][]string{
			{"a1", "c1", "2025-08-01", "garbage", "100", "5"}, // se descarta
			{"a1", "c2", "2025-08-01", "10", "100", "500"},    // se recorta
		},
	}
	ds, err := Normalize(tab, Options{Policy: DropRow})
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	var clamp models.RowFlag
	for _, f := range ds.Flags {
		if f.Column == "clicks" {
			clamp = f
		}
	}
	require.NotEmpty(t, clamp.Reason)
	assert.Equal(t, 1, clamp.Row, "flags must index the uploaded table, not the filtered dataset")
}

func TestNormalizeRevenueImpliesPurchase(t *testing.T) {
	tab := models.Table{
		Headers: []string{"account_id", "campaign_id", "date", "spend", "impressions", "clicks", "revenue"},
		Rows:    [][]string{{"a1", "c1", "2025-08-01", "10", "100", "5", "250"}},
	}
	ds, err := Normalize(tab, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Records[0].Purchases)
}

func TestNormalizeDedupes(t *testing.T) {
	tab := models.Table{
		Headers: []string{"account_id", "campaign_id", "date", "spend", "impressions", "clicks", "ad_id"},
		Rows: [][]string{
			{"a1", "c1", "2025-08-01", "10", "100", "5", "ad1"},
			{"a1", "c1", "2025-08-01", "10", "100", "5", "ad1"},
			{"a1", "c1", "2025-08-01", "10", "100", "5", "ad2"},
		},
	}
	ds, err := Normalize(tab, Options{})
	require.NoError(t, err)
	assert.Len(t, ds.Records, 2)
	assert.Equal(t, 1, ds.Dropped)
}

func TestNormalizeNegativeValuesClampToZero(t *testing.T) {
	tab := models.Table{
		Headers: []string{"account_id", "campaign_id", "date", "spend", "impressions", "clicks"},
		Rows:    [][]string{{"a1", "c1", "2025-08-01", "(10)", "100", "5"}},
	}
	ds, err := Normalize(tab, Options{Policy: ZeroFill})
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Zero(t, ds.Records[0].Spend)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": DropRow, "drop": DropRow, "zero": ZeroFill, "abort": Abort, "ABORT": Abort} {
		got, err := ParsePolicy(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}
	_, err := ParsePolicy("whatever")
	assert.Error(t, err)
}
