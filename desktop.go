package main

import (
	"errors"
	"net/http"
)

func desktopHandler(deps *Dependencies) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		watcher, deps := checkAuthState(w, r, deps)
		webdata := deps.webdata
		sublog := deps.logger
		ctx := r.Context()

		if watcher.WatcherId == 0 {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		symbols, err := deps.repo.GetWatchlistSymbols(ctx, watcher.WatcherId)
		if err != nil {
			sublog.Error().Err(err).Msg("failed to get watchlist")
			deps.messages = append(deps.messages, Message{"Sorry, we could not load your watchlist right now", "warning"})
		}

		rows, err := deps.loader.Load(ctx, viewKey(deps, "desktop", r.FormValue("view")), symbols)
		if errors.Is(err, errSuperseded) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err != nil {
			deps.messages = append(deps.messages, Message{"Sorry, we could not load earnings data right now", "warning"})
		}

		sortParam := r.FormValue("sort")
		switch sortParam {
		case "name":
			rows = SortByCompanyName(rows, false)
		case "name_desc":
			rows = SortByCompanyName(rows, true)
		}

		opportunities, err := deps.repo.GetOpportunities(ctx, TabTailored, watcher.OrgId)
		if err != nil {
			sublog.Error().Err(err).Msg("failed to get tailored opportunities")
		}

		webdata["sort"] = sortParam
		webdata["Rows"] = rows
		webdata["Opportunities"] = ShuffleForDisplay(opportunities, deps.newRand())

		renderTemplate(w, r, deps, "desktop")
	})
}
