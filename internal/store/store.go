// internal/store/store.go
// Local durable cache: a synchronous collection -> payload store.
// The local store is always authoritative for the current session;
// the sync coordinator reconciles it with the remote store.

package store

import (
	"context"
	"errors"
)

// Collection names persisted by the application.
const (
	CollectionLeads        = "leads"
	CollectionInteractions = "interactions"
	CollectionSettings     = "settings"
)

var (
	// ErrQuotaExceeded signals the local store ran out of space. Callers
	// keep their in-memory state but must surface the durability risk.
	ErrQuotaExceeded = errors.New("local store quota exceeded")
)

// Local is the synchronous durable cache consumed by the sync coordinator.
// Get returns (nil, nil) when the collection has never been written.
type Local interface {
	Get(ctx context.Context, collection string) ([]byte, error)
	Set(ctx context.Context, collection string, payload []byte) error
}
