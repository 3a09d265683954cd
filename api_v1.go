package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
)

const apiVersion = "0.1.0"

type jsonResponseData struct {
	ApiVersion string                 `json:"api_version"`
	Endpoint   string                 `json:"endpoint"`
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Data       map[string]interface{} `json:"data"`
}

// watchlistRowJSON is a reconciled row as the watchlist tables consume it.
// Company fields are left out entirely when no company matched the symbol.
type watchlistRowJSON struct {
	CompanyId       uint64          `json:"company_id,omitempty"`
	CompanyName     string          `json:"company_name,omitempty"`
	Symbol          string          `json:"symbol"`
	Statement       IncomeStatement `json:"statement"`
	RevenueGrowth   string          `json:"revenue_growth"`
	NetIncomeGrowth string          `json:"net_income_growth"`
}

func (cs CompanyStatement) MarshalJSON() ([]byte, error) {
	return json.Marshal(watchlistRowJSON{
		CompanyId:       cs.CompanyId(),
		CompanyName:     cs.CompanyName(),
		Symbol:          cs.Symbol,
		Statement:       cs.IncomeStatement,
		RevenueGrowth:   GrowthDirection(cs.RevenueGrowthPct),
		NetIncomeGrowth: GrowthDirection(cs.NetIncomeGrowthPct),
	})
}

type opportunityJSON struct {
	OpportunityId uint64        `json:"opportunity_id"`
	Symbol        string        `json:"symbol"`
	Title         string        `json:"title"`
	BodyHTML      template.HTML `json:"body_html"`
}

func apiV1Handler(deps *Dependencies) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		watcher, deps := checkAuthState(w, r, deps)
		sublog := deps.logger

		w.Header().Add("Content-Type", "application/json")

		params := mux.Vars(r)
		endpoint := params["endpoint"]

		jsonResponse := jsonResponseData{ApiVersion: apiVersion, Endpoint: endpoint, Success: false, Data: make(map[string]interface{})}

		status := http.StatusOK
		switch endpoint {
		case "version":
			jsonResponse.Success = true
			jsonResponse.Message = "ok"

		case "watchlist":
			status = apiWatchlist(r, deps, watcher, &jsonResponse)

		case "opportunities":
			apiOpportunities(r, deps, watcher, &jsonResponse)

		default:
			sublog.Error().Str("api_version", jsonResponse.ApiVersion).Str("endpoint", endpoint).Err(fmt.Errorf("failure: call to unknown api endpoint")).Msg("api call failed")
			jsonResponse.Success = false
			jsonResponse.Message = "Failure: unknown endpoint"
		}

		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(jsonResponse); err != nil {
			sublog.Error().Err(err).Str("endpoint", endpoint).Msg("failed to encode api response")
		}
	})
}

func apiWatchlist(r *http.Request, deps *Dependencies, watcher Watcher, jsonResponse *jsonResponseData) int {
	ctx := r.Context()
	sublog := deps.logger.With().Str("api_version", jsonResponse.ApiVersion).Str("endpoint", jsonResponse.Endpoint).Logger()

	jsonResponse.Data["rows"] = []CompanyStatement{}

	symbols := splitSymbols(r.FormValue("symbols"))
	if len(symbols) > maxSymbols {
		sublog.Warn().Int("symbols", len(symbols)).Msg("too many symbols requested")
		jsonResponse.Message = fmt.Sprintf("Failure: at most %d symbols per request", maxSymbols)
		return http.StatusOK
	}
	if len(symbols) == 0 && watcher.WatcherId != 0 {
		var err error
		symbols, err = deps.repo.GetWatchlistSymbols(ctx, watcher.WatcherId)
		if err != nil {
			sublog.Error().Err(err).Msg("failed to get watchlist")
			jsonResponse.Message = "Failure: could not load watchlist"
			return http.StatusOK
		}
	}
	jsonResponse.Data["symbols"] = symbols

	rows, err := deps.loader.Load(ctx, viewKey(deps, "api", r.FormValue("view")), symbols)
	if errors.Is(err, errSuperseded) {
		jsonResponse.Message = "Superseded by a newer request"
		return http.StatusConflict
	}
	if err != nil {
		jsonResponse.Message = "Failure: could not load earnings data"
		return http.StatusOK
	}

	switch r.FormValue("sort") {
	case "name":
		rows = SortByCompanyName(rows, false)
	case "name_desc":
		rows = SortByCompanyName(rows, true)
	}

	jsonResponse.Data["rows"] = rows
	jsonResponse.Success = true
	jsonResponse.Message = "ok"
	return http.StatusOK
}

func apiOpportunities(r *http.Request, deps *Dependencies, watcher Watcher, jsonResponse *jsonResponseData) {
	ctx := r.Context()
	sublog := deps.logger.With().Str("api_version", jsonResponse.ApiVersion).Str("endpoint", jsonResponse.Endpoint).Logger()

	jsonResponse.Data["opportunities"] = []opportunityJSON{}

	tab, err := parseOpportunityTab(r.FormValue("tab"))
	if err != nil {
		sublog.Warn().Err(err).Msg("bad opportunity tab")
		jsonResponse.Message = "Failure: unknown tab"
		return
	}
	jsonResponse.Data["tab"] = tab

	if tab == TabTailored && watcher.WatcherId == 0 {
		jsonResponse.Message = "Failure: sign in to see tailored opportunities"
		return
	}

	opportunities, err := deps.repo.GetOpportunities(ctx, tab, watcher.OrgId)
	if err != nil {
		sublog.Error().Err(err).Str("tab", string(tab)).Msg("failed to get opportunities")
		jsonResponse.Message = "Failure: could not load opportunities"
		return
	}

	shuffled := ShuffleForDisplay(opportunities, deps.newRand())
	webOpportunities := make([]opportunityJSON, 0, len(shuffled))
	for _, o := range shuffled {
		webOpportunities = append(webOpportunities, opportunityJSON{o.OpportunityId, o.Symbol, o.Title, o.BodyHTML()})
	}

	jsonResponse.Data["opportunities"] = webOpportunities
	jsonResponse.Success = true
	jsonResponse.Message = "ok"
}
