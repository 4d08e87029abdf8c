// Package source produces raw tables from either of the two supported
// inputs: an uploaded spreadsheet or the ads API. Both converge on the
// same Table shape before validation and normalization.
package source

import (
	"context"
	"net/http"
	"time"

	"github.com/angelcm/ads-insights-go/internal/models"
)

// Input is one of the two ingestion variants.
type Input interface {
	Load(ctx context.Context) (models.Table, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// DateRange bounds an ads-API fetch, inclusive on both ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (d DateRange) Since() string { return d.From.Format("2006-01-02") }
func (d DateRange) Until() string { return d.To.Format("2006-01-02") }
