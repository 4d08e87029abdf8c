package httpx

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelcm/ads-insights-go/internal/errs"
	"github.com/angelcm/ads-insights-go/internal/kpi"
	"github.com/angelcm/ads-insights-go/internal/pipeline"
	"github.com/angelcm/ads-insights-go/internal/session"
	"github.com/angelcm/ads-insights-go/internal/source"
	"github.com/angelcm/ads-insights-go/internal/utils"
)

const maxUploadBytes = 32 << 20 // tope sano para subidas

func NewRouter(log *slog.Logger, runner *pipeline.Runner, store *session.Store) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Metrics)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/sessions", func(w http.ResponseWriter, r *http.Request) {
		sess := store.Create()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sess)
	})

	mux.Delete("/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		store.Delete(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	})

	mux.Post("/sessions/{id}/upload", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeErr(w, errs.New(errs.KindNotFound, "unknown session"), nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, hdr, err := r.FormFile("file")
		if err != nil {
			writeErr(w, errs.Wrap(errs.KindFileRead, err, "missing upload"), nil)
			return
		}
		defer file.Close()
		switch strings.ToLower(filepath.Ext(hdr.Filename)) {
		case ".xlsx", ".xlsm":
		default:
			writeErr(w, errs.New(errs.KindFileRead, "unsupported file type %q, expected .xlsx or .xlsm", filepath.Ext(hdr.Filename)), nil)
			return
		}
		in := source.SpreadsheetInput{R: file, Sheet: r.FormValue("sheet")}
		if err := runner.Run(r.Context(), sess, in); err != nil {
			writeErr(w, err, sess)
			return
		}
		store.Touch(sess.ID)
		writeJSON(w, runSummary(sess))
	})

	mux.Post("/sessions/{id}/ingest/run", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeErr(w, errs.New(errs.KindNotFound, "unknown session"), nil)
			return
		}
		rng, err := parseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := runner.Run(r.Context(), sess, runner.AdsInput(rng)); err != nil {
			writeErr(w, err, sess)
			return
		}
		store.Touch(sess.ID)
		writeJSON(w, runSummary(sess))
	})

	mux.Get("/sessions/{id}/data", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeErr(w, errs.New(errs.KindNotFound, "unknown session"), nil)
			return
		}
		if sess.Data == nil {
			http.Error(w, "no dataset loaded", http.StatusBadRequest)
			return
		}
		writeJSON(w, sess.Data)
	})

	mux.Get("/sessions/{id}/kpis", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeErr(w, errs.New(errs.KindNotFound, "unknown session"), nil)
			return
		}
		if sess.Data == nil {
			http.Error(w, "no dataset loaded", http.StatusBadRequest)
			return
		}
		by, err := kpi.ParseGroupBy(r.URL.Query().Get("group_by"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// siempre se calcula fresco a partir del dataset
		writeJSON(w, map[string]any{
			"group_by": r.URL.Query().Get("group_by"),
			"rows":     kpi.Aggregate(*sess.Data, by),
			"totals":   sess.Totals,
		})
	})

	mux.Post("/sessions/{id}/insights", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeErr(w, errs.New(errs.KindNotFound, "unknown session"), nil)
			return
		}
		if sess.Data == nil {
			http.Error(w, "no dataset loaded", http.StatusBadRequest)
			return
		}
		text, unavailable := runner.Insights(r.Context(), sess)
		store.Touch(sess.ID)
		writeJSON(w, map[string]any{
			"insights":             text,
			"insights_unavailable": unavailable,
		})
	})

	mux.Get("/sessions/{id}/report", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeErr(w, errs.New(errs.KindNotFound, "unknown session"), nil)
			return
		}
		if sess.Data == nil {
			http.Error(w, "no dataset loaded", http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{
			"session":              sess.ID,
			"validation":           sess.Report,
			"data":                 sess.Data,
			"totals":               sess.Totals,
			"kpis":                 sess.KPIs,
			"insights":             sess.InsightText,
			"insights_unavailable": sess.InsightUnavailable,
		})
	})

	return mux
}

func runSummary(sess *session.Session) map[string]any {
	return map[string]any{
		"session":    sess.ID,
		"validation": sess.Report,
		"records":    len(sess.Data.Records),
		"dropped":    sess.Data.Dropped,
		"flags":      sess.Data.Flags,
		"totals":     sess.Totals,
	}
}

func parseRange(from, to string) (source.DateRange, error) {
	var rng source.DateRange
	f, err := time.Parse("2006-01-02", from)
	if err != nil {
		return rng, fmt.Errorf("from must be YYYY-MM-DD")
	}
	t, err := time.Parse("2006-01-02", to)
	if err != nil {
		return rng, fmt.Errorf("to must be YYYY-MM-DD")
	}
	if t.Before(f) {
		return rng, fmt.Errorf("to is before from")
	}
	rng.From, rng.To = f, t
	return rng, nil
}

func writeErr(w http.ResponseWriter, err error, sess *session.Session) {
	status := http.StatusInternalServerError
	switch errs.KindOf(err) {
	case errs.KindSchema, errs.KindCoercion:
		status = http.StatusUnprocessableEntity
	case errs.KindFileRead:
		status = http.StatusBadRequest
	case errs.KindAPI:
		status = http.StatusBadGateway
	case errs.KindNotFound:
		status = http.StatusNotFound
	}
	body := map[string]any{
		"kind":  errs.KindOf(err).String(),
		"error": err.Error(),
	}
	if sess != nil && sess.Report != nil && !sess.Report.Valid {
		body["validation"] = sess.Report
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
