package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelcm/ads-insights-go/internal/errs"
	"github.com/angelcm/ads-insights-go/internal/models"
)

func validTable() models.Table {
	return models.Table{
		Headers: []string{"account_id", "campaign_id", "date", "spend", "impressions", "clicks"},
		Rows: [][]string{
			{"a1", "c1", "2025-08-01", "10.50", "1000", "25"},
			{"a1", "c2", "2025-08-01", "5", "500", "10"},
		},
	}
}

func TestValidateOK(t *testing.T) {
	rep := Validate(validTable(), NewMapper(nil))
	assert.True(t, rep.Valid)
	assert.Empty(t, rep.Violations)
	assert.NoError(t, rep.Err())
}

func TestValidateMissingClicksNamesColumn(t *testing.T) {
	tab := models.Table{
		Headers: []string{"account_id", "campaign_id", "date", "spend", "impressions"},
		Rows:    [][]string{{"a1", "c1", "2025-08-01", "10", "100"}},
	}
	rep := Validate(tab, NewMapper(nil))
	require.False(t, rep.Valid)
	require.Len(t, rep.Violations, 1)
	assert.Equal(t, "clicks", rep.Violations[0].Column)

	err := rep.Err()
	require.Error(t, err)
	assert.Equal(t, errs.KindSchema, errs.KindOf(err))
	assert.True(t, strings.Contains(err.Error(), "clicks"))
}

func TestValidateAliasSatisfiesRequiredColumn(t *testing.T) {
	tab := models.Table{
		Headers: []string{"account_id", "campaign_id", "date", "Amount Spent", "impressions", "Link Clicks"},
		Rows:    [][]string{{"a1", "c1", "2025-08-01", "10", "100", "5"}},
	}
	rep := Validate(tab, NewMapper(nil))
	assert.True(t, rep.Valid, "aliased headers must count as the canonical columns")
}

func TestValidateBadSpendIsRowScoped(t *testing.T) {
	tab := validTable()
	tab.Rows[1][3] = "not-a-number"
	rep := Validate(tab, NewMapper(nil))

	assert.True(t, rep.Valid, "a single bad cell must not fail the whole table")
	require.Len(t, rep.RowIssues, 1)
	assert.Equal(t, "spend", rep.RowIssues[0].Column)
	assert.Equal(t, 1, rep.RowIssues[0].Row)
}

func TestValidateWhollyEmptyRequiredColumn(t *testing.T) {
	tab := validTable()
	for i := range tab.Rows {
		tab.Rows[i][5] = ""
	}
	rep := Validate(tab, NewMapper(nil))
	require.False(t, rep.Valid)
	assert.Equal(t, "clicks", rep.Violations[0].Column)
}

func TestValidateEmptyTable(t *testing.T) {
	rep := Validate(models.Table{Headers: []string{"spend"}}, NewMapper(nil))
	assert.False(t, rep.Valid)
}

func TestValidateClicksAboveImpressionsWarns(t *testing.T) {
	tab := validTable()
	tab.Rows[0][5] = "5000" // clicks > impressions
	rep := Validate(tab, NewMapper(nil))
	assert.True(t, rep.Valid)
	found := false
	for _, w := range rep.Warnings {
		if strings.Contains(w, "exceed impressions") {
			found = true
		}
	}
	assert.True(t, found, "expected clicks>impressions warning, got %v", rep.Warnings)
}

func TestValidateDuplicateRowsWarn(t *testing.T) {
	tab := validTable()
	tab.Rows = append(tab.Rows, tab.Rows[0])
	rep := Validate(tab, NewMapper(nil))
	assert.True(t, rep.Valid)
	found := false
	for _, w := range rep.Warnings {
		if strings.Contains(w, "duplicate rows") {
			found = true
		}
	}
	assert.True(t, found, "expected duplicate-rows warning, got %v", rep.Warnings)
}

func TestValidateNegativeSpendIsRowIssue(t *testing.T) {
	tab := validTable()
	tab.Rows[0][3] = "(12.50)"
	rep := Validate(tab, NewMapper(nil))
	assert.True(t, rep.Valid)
	require.NotEmpty(t, rep.RowIssues)
	assert.Equal(t, "spend", rep.RowIssues[0].Column)
	assert.Equal(t, "negative value", rep.RowIssues[0].Reason)
}
