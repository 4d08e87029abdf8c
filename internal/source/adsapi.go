package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/angelcm/ads-insights-go/internal/errs"
	"github.com/angelcm/ads-insights-go/internal/models"
	"github.com/angelcm/ads-insights-go/internal/utils"
)

// insightsFields is what we ask the ads API for; it matches the canonical
// schema after renaming date_start -> date and unpacking actions.
var insightsFields = []string{
	"account_id", "campaign_id", "campaign_name", "ad_id", "ad_name",
	"date_start", "spend", "impressions", "clicks", "objective",
	"actions", "action_values",
}

// AdsAPIInput fetches daily ad-level insights for one account and date
// range. Numeric fields arrive as strings on the wire and stay strings in
// the raw table; coercion is the normalizer's job.
type AdsAPIInput struct {
	Client      HTTPClient
	BaseURL     string
	AccessToken string
	AccountID   string
	Range       DateRange
}

type insightsAction struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

type insightsRow struct {
	AccountID    string           `json:"account_id"`
	CampaignID   string           `json:"campaign_id"`
	CampaignName string           `json:"campaign_name"`
	AdID         string           `json:"ad_id"`
	AdName       string           `json:"ad_name"`
	DateStart    string           `json:"date_start"`
	Spend        string           `json:"spend"`
	Impressions  string           `json:"impressions"`
	Clicks       string           `json:"clicks"`
	Objective    string           `json:"objective"`
	Actions      []insightsAction `json:"actions"`
	ActionValues []insightsAction `json:"action_values"`
}

type insightsPage struct {
	Data   []insightsRow `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (a AdsAPIInput) Load(ctx context.Context) (models.Table, error) {
	if a.AccessToken == "" || a.AccountID == "" {
		return models.Table{}, errs.New(errs.KindAPI, "ads API credentials not configured")
	}

	next := a.firstPageURL()
	t := models.Table{Headers: []string{
		"account_id", "campaign_id", "date", "spend", "impressions", "clicks",
		"purchases", "revenue", "ad_id", "ad_name", "campaign_name", "objective",
	}}

	for next != "" {
		var page insightsPage
		if err := a.getJSON(ctx, next, &page); err != nil {
			return models.Table{}, err
		}
		if page.Error != nil {
			return models.Table{}, errs.New(errs.KindAPI, "ads API error %d: %s", page.Error.Code, page.Error.Message)
		}
		for _, r := range page.Data {
			acct := r.AccountID
			if acct == "" {
				acct = a.AccountID
			}
			t.Rows = append(t.Rows, []string{
				acct,
				r.CampaignID,
				r.DateStart,
				r.Spend,
				r.Impressions,
				r.Clicks,
				actionValue(r.Actions, "purchase"),
				actionValue(r.ActionValues, "purchase"),
				r.AdID,
				r.AdName,
				r.CampaignName,
				r.Objective,
			})
		}
		next = page.Paging.Next
	}
	return t, nil
}

func (a AdsAPIInput) firstPageURL() string {
	q := url.Values{}
	q.Set("fields", strings.Join(insightsFields, ","))
	q.Set("access_token", a.AccessToken)
	q.Set("time_range", fmt.Sprintf(`{"since":"%s","until":"%s"}`, a.Range.Since(), a.Range.Until()))
	q.Set("time_increment", "1")
	q.Set("level", "ad")
	return strings.TrimRight(a.BaseURL, "/") + "/" + a.AccountID + "/insights?" + q.Encode()
}

func (a AdsAPIInput) getJSON(ctx context.Context, u string, dst any) error {
	bo := utils.NewBackoff(100*time.Millisecond, 2)
	var lastStatus int
	var lastBody string
	err := bo.Do(func(i int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		resp, err := a.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			lastStatus = resp.StatusCode
			lastBody = string(b)
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		lastStatus = 0
		return json.NewDecoder(resp.Body).Decode(dst)
	})
	if err != nil {
		if lastStatus != 0 {
			return errs.New(errs.KindAPI, "ads API returned %d: %s", lastStatus, strconv.Quote(lastBody))
		}
		return errs.Wrap(errs.KindAPI, err, "ads API request failed")
	}
	return nil
}

// actionValue extracts one action counter from the API's actions array.
func actionValue(actions []insightsAction, actionType string) string {
	for _, a := range actions {
		if a.ActionType == actionType {
			return a.Value
		}
	}
	return "0"
}
