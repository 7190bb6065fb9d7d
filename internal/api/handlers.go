package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neexbeast/travel-search/internal/controller"
	"github.com/neexbeast/travel-search/internal/render"
	"github.com/neexbeast/travel-search/internal/travel"
)

const (
	sessionCookie = "travel_session"

	// invalidInputAlert is shown when the form cannot be turned into a query.
	invalidInputAlert = "Please enter a destination and a stay of at least one night."
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	sessions  *controller.Sessions
	searcher  Searcher
	pages     PageRenderer
	searchLog SearchLog
	log       *slog.Logger
	now       func() time.Time
}

// NewHandlers constructs Handlers. searchLog may be nil when no database is configured.
func NewHandlers(sessions *controller.Sessions, searcher Searcher, pages PageRenderer, searchLog SearchLog, log *slog.Logger) *Handlers {
	return &Handlers{
		sessions:  sessions,
		searcher:  searcher,
		pages:     pages,
		searchLog: searchLog,
		log:       log,
		now:       time.Now,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ShowPage handles GET /.
// Renders the caller's current view; a pending alert is shown once.
func (h *Handlers) ShowPage(w http.ResponseWriter, r *http.Request) {
	ctrl := h.sessions.Get(h.session(w, r))
	h.renderView(w, http.StatusOK, ctrl.Current())
}

// SubmitSearch handles POST /search.
// Invalid input → 400. Search already loading for the session → 409.
// Fetch or render failure → 500 with the alert. Otherwise the results page.
func (h *Handlers) SubmitSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderPage(w, http.StatusBadRequest, &render.PageData{Form: h.defaultForm(), Alert: invalidInputAlert})
		return
	}

	raw := render.FormData{
		Destination: r.PostFormValue("destination"),
		Date:        r.PostFormValue("startDate"),
	}
	q, err := travel.ParseQuery(raw.Destination, raw.Date, r.PostFormValue("duration"))
	if err != nil {
		h.log.Info("rejected search input", "err", err)
		raw.Duration, _ = strconv.Atoi(strings.TrimSpace(r.PostFormValue("duration")))
		if raw.Duration < 1 {
			raw.Duration = 1
		}
		h.renderPage(w, http.StatusBadRequest, &render.PageData{Form: raw, Alert: invalidInputAlert})
		return
	}

	ctrl := h.sessions.Get(h.session(w, r))
	start := h.now()
	view, err := ctrl.Submit(r.Context(), q)

	switch {
	case errors.Is(err, controller.ErrSearchInProgress):
		h.renderView(w, http.StatusConflict, view)
	case err != nil:
		h.record(r.Context(), q, travel.OutcomeFailure, view, start)
		h.renderView(w, http.StatusInternalServerError, view)
	default:
		h.record(r.Context(), q, travel.OutcomeSuccess, view, start)
		h.renderView(w, http.StatusOK, view)
	}
}

// SearchAPI handles GET /api/v1/search.
// Runs the same fork-join as the page without touching session state.
func (h *Handlers) SearchAPI(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q, err := travel.ParseQuery(params.Get("destination"), params.Get("date"), params.Get("duration"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	start := h.now()
	res, err := h.searcher.Search(r.Context(), q)
	if err != nil {
		h.log.Error("api search failed", "destination", q.Destination, "err", err)
		h.record(r.Context(), q, travel.OutcomeFailure, controller.View{}, start)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": controller.AlertMessage})
		return
	}

	h.record(r.Context(), q, travel.OutcomeSuccess, controller.View{Hotels: len(res.Hotels), Flights: len(res.Flights)}, start)
	writeJSON(w, http.StatusOK, res)
}

// ListSearches handles GET /api/v1/searches.
func (h *Handlers) ListSearches(w http.ResponseWriter, r *http.Request) {
	records, err := h.searchLog.RecentSearches(r.Context(), limitParam(r))
	if err != nil {
		h.log.Error("listing searches failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if records == nil {
		records = []travel.SearchRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"searches": records})
}

// TopDestinations handles GET /api/v1/searches/top.
func (h *Handlers) TopDestinations(w http.ResponseWriter, r *http.Request) {
	counts, err := h.searchLog.TopDestinations(r.Context(), limitParam(r))
	if err != nil {
		h.log.Error("listing top destinations failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if counts == nil {
		counts = []travel.DestinationCount{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"destinations": counts})
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis connectivity.
// A nil pinger reports "disabled" and does not degrade the status.
func HealthHandlerFunc(db, redis Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		check := func(name string, p Pinger) string {
			if p == nil {
				return "disabled"
			}
			if err := p.Ping(ctx); err != nil {
				log.Error("health check: ping failed", "dependency", name, "err", err)
				status = http.StatusServiceUnavailable
				return "error"
			}
			return "ok"
		}

		dbStatus := check("db", db)
		redisStatus := check("redis", redis)

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}

// session returns the caller's session ID, issuing a new cookie when absent or malformed.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// record appends a row to the search log. Failures are logged and never surface.
func (h *Handlers) record(ctx context.Context, q travel.SearchQuery, outcome string, view controller.View, start time.Time) {
	if h.searchLog == nil {
		return
	}

	rec := travel.SearchRecord{
		Destination: q.Destination,
		Date:        q.Date,
		Duration:    q.Duration,
		Outcome:     outcome,
		Hotels:      view.Hotels,
		Flights:     view.Flights,
		ElapsedMS:   h.now().Sub(start).Milliseconds(),
	}
	if _, err := h.searchLog.RecordSearch(context.WithoutCancel(ctx), rec); err != nil {
		h.log.Warn("recording search failed", "destination", q.Destination, "err", err)
	}
}

func (h *Handlers) defaultForm() render.FormData {
	return render.FormData{Date: h.now().Format(time.DateOnly), Duration: 1}
}

// renderView renders a controller view, falling back to form defaults before the first search.
func (h *Handlers) renderView(w http.ResponseWriter, status int, v controller.View) {
	form := h.defaultForm()
	if v.Query.Destination != "" {
		form = render.FormData{Destination: v.Query.Destination, Date: v.Query.Date, Duration: v.Query.Duration}
	}

	h.renderPage(w, status, &render.PageData{
		Form:        form,
		Busy:        v.Busy,
		ShowResults: v.ShowResults,
		HotelCards:  v.HotelCards,
		FlightCards: v.FlightCards,
		Alert:       v.Alert,
	})
}

// renderPage buffers the page so a template error never sends a partial body.
func (h *Handlers) renderPage(w http.ResponseWriter, status int, data *render.PageData) {
	var buf bytes.Buffer
	if err := h.pages.Page(&buf, data); err != nil {
		h.log.Error("rendering page failed", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// limitParam reads ?limit=; anything unparsable falls back to the repository default.
func limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}
