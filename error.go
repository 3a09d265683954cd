package main

import (
	"net/http"
)

func errorHandler(w http.ResponseWriter, r *http.Request, deps *Dependencies, status int, errorMsg string) {
	deps.messages = append(deps.messages, Message{errorMsg, "danger"})
	renderTemplateStatus(w, r, deps, "error", status)
}

func notFoundHandler(deps *Dependencies) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deps := checkAuthState(w, r, deps)
		errorHandler(w, r, deps, http.StatusNotFound, "Sorry, that page does not exist")
	})
}
