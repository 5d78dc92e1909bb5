// internal/remote/remote.go
// Remote real-time store. The whole tracker lives in one aggregate
// document per user; every write and notification carries the full
// collections, not deltas.

package remote

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the aggregate document has never been written.
	ErrNotFound = errors.New("remote document not found")
)

// Store is implemented by the Firestore adapter and by the in-process
// mock used in development and tests.
//
// Read returns the JSON-encoded document. Write applies a field-level
// merge: only the given fields are touched, others keep their last
// known remote value. Subscribe delivers the JSON document on every
// change until the returned stop function is called.
type Store interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, fields map[string]interface{}) error
	Subscribe(ctx context.Context, onChange func(payload []byte), onError func(err error)) (stop func(), err error)
}
