package main

import (
	"html/template"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/gorilla/sessions"
	"github.com/oxtoacart/bpool"
	"github.com/rs/zerolog"
)

type ContextKey string

// Dependencies is everything a handler needs. The long-lived half is built
// once at startup; checkAuthState copies it for each request and fills in
// the request-scoped half, so requests never share webdata, messages or
// loggers.
type Dependencies struct {
	repo        Repository
	loader      *viewLoader
	cookieStore sessions.Store
	templates   *template.Template
	bufpool     *bpool.BufferPool
	config      Config
	s3svc       s3iface.S3API
	newRand     func() *rand.Rand

	// per request
	session    *sessions.Session
	watcher    Watcher
	request_id string
	nonce      string
	logger     *zerolog.Logger
	webconfig  map[string]interface{}
	webdata    map[string]interface{}
	messages   []Message
}

// newDependencies wires the long-lived half. s3svc may be nil when no CSP
// bucket is configured.
func newDependencies(repo Repository, store sessions.Store, s3svc s3iface.S3API, config Config, logger zerolog.Logger) *Dependencies {
	return &Dependencies{
		repo:        repo,
		loader:      newViewLoader(repo, logger),
		cookieStore: store,
		templates:   mustParseTemplates(),
		bufpool:     bpool.NewBufferPool(48),
		config:      config,
		s3svc:       s3svc,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		logger:    &logger,
		webconfig: make(map[string]interface{}),
		webdata:   make(map[string]interface{}),
	}
}
