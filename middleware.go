package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func wrapStatus(w http.ResponseWriter) *statusWriter {
	if sw, ok := w.(*statusWriter); ok {
		return sw
	}
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

// Logging middleware ---------------------------------------------------------

type Logger struct {
	logger  zerolog.Logger
	handler http.Handler
}

func (l *Logger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t := time.Now()
	sw := wrapStatus(w)
	r = r.WithContext(l.logger.WithContext(r.Context()))
	l.handler.ServeHTTP(sw, r)
	l.logger.Info().
		Str("request-id", sw.Header().Get("X-Request-ID")).
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status_code", sw.status).
		Int64("response_time", time.Since(t).Nanoseconds()).
		Msg("request served")
}
func withLogging(logger zerolog.Logger, h http.Handler) *Logger {
	return &Logger{logger, h}
}

// Request headers middleware -------------------------------------------------

type AddHeader struct {
	handler http.Handler
}

func (ah *AddHeader) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestId := r.Header.Get("X-Request-ID")
	if requestId == "" {
		requestId = uuid.NewString()
	}
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")

	w.Header().Set("X-Request-ID", requestId)
	w.Header().Set("X-Nonce", nonce)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", fmt.Sprintf("default-src 'self'; script-src 'self' 'nonce-%s'; object-src 'none'; report-uri /internal/cspviolation", nonce))

	ah.handler.ServeHTTP(w, r)
}
func withAddHeader(h http.Handler) *AddHeader {
	return &AddHeader{h}
}

// Session management middleware ----------------------------------------------

type Session struct {
	store   sessions.Store
	handler http.Handler
}

func (s *Session) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		// a cookie we cannot decode (rotated keys, tampering) just starts a new session
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to decode session, starting a new one")
	}
	if session.IsNew {
		session.Values["sid"] = uuid.NewString()
		session.Values["theme"] = "light"
		if err := session.Save(r, w); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to save session")
		}
	}
	r = r.WithContext(context.WithValue(r.Context(), ContextKey("session"), session))

	s.handler.ServeHTTP(w, r)
}
func withSession(store sessions.Store, h http.Handler) *Session {
	return &Session{store, h}
}

// viewKey names a watchlist load for the view loader. Only loads that name a
// view share a key, so a newer load of that view in the same session
// supersedes an older one. Page navigations without a view never collide,
// even from two tabs on one session cookie.
func viewKey(deps *Dependencies, page, view string) string {
	if view == "" {
		requestId := deps.request_id
		if requestId == "" {
			requestId = uuid.NewString()
		}
		return page + "/request-" + requestId
	}
	return sessionKey(deps, page+"-"+view)
}

// sessionKey identifies one view of one visitor
func sessionKey(deps *Dependencies, view string) string {
	if deps.session != nil {
		if sid, ok := deps.session.Values["sid"].(string); ok && sid != "" {
			return sid + "/" + view
		}
	}
	if deps.watcher.WatcherId != 0 {
		return fmt.Sprintf("watcher-%d/%s", deps.watcher.WatcherId, view)
	}
	return deps.request_id + "/" + view
}
