// Package storage provides data storage interfaces and implementations
// for the gateway.
//
// # Interface Design
//
// The storage layer is organized into focused interfaces:
//
//   - [KeyStore]: partner API key records, looked up by host identity
//   - [RequestLogStore]: audit trail of processed booking requests
//
// The [Store] interface combines the sub-stores for convenience.
//
// # Implementations
//
// The mongodb sub-package provides the production implementation. The
// memory sub-package provides an in-process implementation for tests
// and local development.
//
// # Concurrency
//
// All store implementations must be safe for concurrent use from
// multiple goroutines.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Key is a partner authorization record. Name is the host identity
// derived from the partner's API key by stripping the shared base key.
type Key struct {
	ID        string    `bson:"_id,omitempty"`
	Name      string    `bson:"name"`
	Comment   string    `bson:"comment,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// LogStatus describes the processing outcome recorded for a request.
type LogStatus string

const (
	StatusReceived  LogStatus = "received"
	StatusConfirmed LogStatus = "confirmed"
	StatusRejected  LogStatus = "rejected"
	StatusError     LogStatus = "error"
)

// LogEntry is one audit record for a booking request.
type LogEntry struct {
	ID                string    `bson:"_id,omitempty"`
	ExternalReference string    `bson:"external_reference"`
	Status            LogStatus `bson:"status"`
	ErrorMessage      string    `bson:"error_message,omitempty"`
	CreatedAt         time.Time `bson:"created_at"`
}

// KeyStore manages partner API key records
type KeyStore interface {
	// CreateKey stores a new key record
	CreateKey(ctx context.Context, key *Key) error

	// GetKeyByName retrieves a key record by host identity.
	// Returns ErrNotFound when no record exists.
	GetKeyByName(ctx context.Context, name string) (*Key, error)

	// DeleteKey removes a key record by host identity
	DeleteKey(ctx context.Context, name string) error
}

// RequestLogStore manages the request audit trail
type RequestLogStore interface {
	// CreateLogEntry appends an audit record
	CreateLogEntry(ctx context.Context, entry *LogEntry) error

	// ListLogEntries returns audit records for an external reference,
	// oldest first
	ListLogEntries(ctx context.Context, externalReference string) ([]*LogEntry, error)
}

// Store is the main storage interface combining all sub-stores
type Store interface {
	KeyStore
	RequestLogStore

	// Close releases storage resources
	Close(ctx context.Context) error

	// Ping checks database connectivity
	Ping(ctx context.Context) error
}
