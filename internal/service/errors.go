package service

import "errors"

var (
	ErrSyncInProgress   = errors.New("sync already in progress")
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrOffline          = errors.New("device is offline")
	ErrSyncNotAllowed   = errors.New("sync not allowed for current subscription")
	ErrNoAuthToken      = errors.New("no auth token available")

	ErrDocumentNotFound  = errors.New("document not found")
	ErrNoConflictPending = errors.New("no conflict pending for document")
	ErrUnknownResolution = errors.New("unknown resolution mode")
	ErrVersionRegression = errors.New("remote version behind local base")

	ErrMigrationRunning = errors.New("migration already running")
)
