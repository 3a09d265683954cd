package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgryski/go-skip32"
	"github.com/gorilla/sessions"
)

const sessionName = "SID"

// Sets up for a web request - every handler calls this first and works with
// the returned deps, which is a copy of the long-lived deps plus a fresh
// request id, nonce, logger, webconfig and webdata for THIS request.
// If the session carries an encWId for an active watcher, that watcher is
// returned; otherwise the zero Watcher.
func checkAuthState(w http.ResponseWriter, r *http.Request, deps *Dependencies) (Watcher, *Dependencies) {
	resHeader := w.Header()
	newnonce := resHeader.Get("X-Nonce")
	newrequestid := resHeader.Get("X-Request-ID")
	newlog := deps.logger.With().Str("request-id", newrequestid).Logger()

	newdeps := *deps
	newdeps.request_id = newrequestid
	newdeps.nonce = newnonce
	newdeps.logger = &newlog
	newdeps.webconfig = map[string]interface{}{}
	newdeps.webdata = map[string]interface{}{}
	newdeps.messages = []Message{}
	newdeps.watcher = Watcher{}

	webdata := newdeps.webdata
	webdata["nonce"] = newnonce
	webdata["request-id"] = newrequestid

	sublog := newdeps.logger

	session, ok := r.Context().Value(ContextKey("session")).(*sessions.Session)
	if !ok || session == nil {
		sublog.Warn().Err(errFailedToGetSessionFromContext).Msg("anonymous visitor")
		webdata["loggedout"] = 1
		return Watcher{}, &newdeps
	}
	newdeps.session = session

	encWId, ok := session.Values["encWId"].(string)
	if !ok || encWId == "" {
		sublog.Info().Msg("anonymous visitor")
		webdata["loggedout"] = 1
		return Watcher{}, &newdeps
	}

	watcherId, err := decryptedId(deps.config.Skip32WatcherKey, encWId)
	if err != nil {
		sublog.Error().Err(err).Str("encWId", encWId).Msg("failed to decrypt encWId {encWId}")
		forgetWatcher(w, r, &newdeps)
		return Watcher{}, &newdeps
	}
	watcher, err := deps.repo.GetWatcherById(r.Context(), watcherId)
	if err != nil {
		sublog.Error().Err(err).Str("encWId", encWId).Msg("failed to load watcher via encWId {encWId}")
		forgetWatcher(w, r, &newdeps)
		return Watcher{}, &newdeps
	}
	if !watcher.IsActive() {
		sublog.Error().Err(errWatcherNotActive).Str("encWId", encWId).Str("status", watcher.WatcherStatus).Msg("watcher is not active: {status}")
		forgetWatcher(w, r, &newdeps)
		return Watcher{}, &newdeps
	}

	sublog.Info().Str("encWId", encWId).Msg("authenticated watcher from session")
	newdeps.watcher = watcher
	webdata["encWId"] = encWId
	webdata["Watcher"] = watcher.web()

	return watcher, &newdeps
}

// forgetWatcher drops the watcher from the session, signing the visitor out
func forgetWatcher(w http.ResponseWriter, r *http.Request, deps *Dependencies) {
	sublog := deps.logger

	delete(deps.session.Values, "encWId")
	deps.webdata["loggedout"] = 1
	if err := deps.session.Save(r, w); err != nil {
		sublog.Error().Err(err).Msg("failed to save session")
	}
}

// encryptId mints the encWId that the sign-in service stores in the session;
// sign-in itself runs outside this app.
// split uint64 into high/low uint32s and skip32 them and return as 8 or 16 hex chars
func encryptId(key string, id uint64) (string, error) {
	if key == "" {
		return "", errEncryptionKeyNotFound
	}
	cipher, err := skip32.New([]byte(key))
	if err != nil {
		return "", fmt.Errorf("encryption failed: %w", err)
	}

	if (id >> 32) != 0 {
		return fmt.Sprintf("%08x%08x", cipher.Obfus(uint32(id>>32)), cipher.Obfus(uint32(id&0xFFFFFFFF))), nil
	}
	return fmt.Sprintf("%08x", cipher.Obfus(uint32(id&0xFFFFFFFF))), nil
}

// break 8 or 16 hex chars into high/low uint32s and un-skip32 them and combine to single uint64
func decryptedId(key string, obfuscated string) (uint64, error) {
	if len(obfuscated) != 8 && len(obfuscated) != 16 {
		return 0, errInvalidEncryptedId
	}
	if key == "" {
		return 0, errEncryptionKeyNotFound
	}
	cipher, err := skip32.New([]byte(key))
	if err != nil {
		return 0, fmt.Errorf("decryption failed: %w", err)
	}

	left, err := strconv.ParseUint(obfuscated[:8], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errInvalidEncryptedId, err)
	}
	if len(obfuscated) == 8 {
		return uint64(cipher.Unobfus(uint32(left))), nil
	}

	right, err := strconv.ParseUint(obfuscated[8:16], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errInvalidEncryptedId, err)
	}
	return uint64(cipher.Unobfus(uint32(left)))<<32 | uint64(cipher.Unobfus(uint32(right))), nil
}
