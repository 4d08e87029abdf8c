// Package pipeline orchestrates one run: source adapter to validator to
// normalizer to KPI calculator, with best-effort insight generation on
// top. Results land in the caller's session and nowhere else.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/angelcm/ads-insights-go/internal/config"
	"github.com/angelcm/ads-insights-go/internal/insights"
	"github.com/angelcm/ads-insights-go/internal/kpi"
	"github.com/angelcm/ads-insights-go/internal/normalize"
	"github.com/angelcm/ads-insights-go/internal/schema"
	"github.com/angelcm/ads-insights-go/internal/session"
	"github.com/angelcm/ads-insights-go/internal/source"
	"github.com/angelcm/ads-insights-go/internal/utils"
)

type Runner struct {
	client source.HTTPClient
	ins    *insights.Client
	log    *slog.Logger
	cfg    config.Config
	mapper *schema.Mapper
	policy normalize.Policy
}

func NewRunner(client source.HTTPClient, ins *insights.Client, log *slog.Logger, cfg config.Config) (*Runner, error) {
	pol, err := normalize.ParsePolicy(cfg.RowPolicy)
	if err != nil {
		return nil, err
	}
	return &Runner{
		client: client,
		ins:    ins,
		log:    log,
		cfg:    cfg,
		mapper: schema.NewMapper(nil),
		policy: pol,
	}, nil
}

// AdsInput builds the ads-API variant from the configured credentials.
func (r *Runner) AdsInput(rng source.DateRange) source.Input {
	return source.AdsAPIInput{
		Client:      r.client,
		BaseURL:     r.cfg.AdsAPIURL,
		AccessToken: r.cfg.AdsAccessToken,
		AccountID:   r.cfg.AdsAccountID,
		Range:       rng,
	}
}

// Run loads the input, validates, normalizes and computes per-row KPIs,
// overwriting whatever the session held from a previous run. Any prior
// insight text is cleared: it described the old dataset.
func (r *Runner) Run(ctx context.Context, sess *session.Session, in source.Input) error {
	table, err := in.Load(ctx)
	if err != nil {
		return err
	}

	rep := schema.Validate(table, r.mapper)
	sess.Report = &rep
	if err := rep.Err(); err != nil {
		return err
	}

	ds, err := normalize.Normalize(table, normalize.Options{Policy: r.policy, Mapper: r.mapper})
	if err != nil {
		return err
	}
	utils.RowsAccepted.Add(float64(len(ds.Records)))
	utils.RowsRejected.Add(float64(ds.Dropped))

	totals := kpi.Totals(ds)
	sess.Data = &ds
	sess.KPIs = kpi.Compute(ds)
	sess.Totals = &totals
	sess.InsightText = ""
	sess.InsightUnavailable = false

	r.log.Info("pipeline run complete",
		slog.String("session", sess.ID),
		slog.Int("records", len(ds.Records)),
		slog.Int("dropped", ds.Dropped),
		slog.Int("flags", len(ds.Flags)))
	return nil
}

// Insights generates narrative recommendations for the session's dataset.
// Unavailability is not an error; the fallback summary is returned and
// flagged so callers can tell the difference.
func (r *Runner) Insights(ctx context.Context, sess *session.Session) (string, bool) {
	p := insights.BuildPayload(*sess.Data)
	text, unavailable := r.ins.Generate(ctx, p)
	if unavailable {
		utils.InsightFailures.Inc()
	}
	sess.InsightText = text
	sess.InsightUnavailable = unavailable
	return text, unavailable
}
