package main

import "errors"

var (
	errSuperseded                    = errors.New("load superseded by a newer request")
	errUnknownOpportunityTab         = errors.New("unknown opportunity tab")
	errWatcherNotFound               = errors.New("watcher not found")
	errWatcherNotActive              = errors.New("watcher is not active")
	errInvalidEncryptedId            = errors.New("invalid encrypted id")
	errEncryptionKeyNotFound         = errors.New("encryption key not found")
	errFailedToGetSessionFromContext = errors.New("failed to get session from context")
)
