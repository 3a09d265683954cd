package main

import (
	"net/http"
)

func homeHandler(deps *Dependencies) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		watcher, deps := checkAuthState(w, r, deps)

		// the opposite of normal, for authenticated visits we redirect
		if watcher.WatcherId != 0 {
			http.Redirect(w, r, "/desktop", http.StatusFound)
			return
		}
		renderTemplate(w, r, deps, "home")
	})
}
