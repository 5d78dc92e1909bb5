// internal/remote/firestore.go
// Firestore adapter: one document, merge writes, snapshot subscription.

package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreConfig holds Firestore connection settings
type FirestoreConfig struct {
	ProjectID  string
	CredsFile  string
	Collection string
	DocID      string
}

// FirestoreStore implements Store on a single Firestore document.
type FirestoreStore struct {
	client *firestore.Client
	doc    *firestore.DocumentRef
}

func NewFirestoreStore(ctx context.Context, cfg *FirestoreConfig) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if cfg.CredsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreStore{
		client: client,
		doc:    client.Collection(cfg.Collection).Doc(cfg.DocID),
	}, nil
}

func (s *FirestoreStore) Read(ctx context.Context) ([]byte, error) {
	snap, err := s.doc.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read remote document: %w", err)
	}

	payload, err := json.Marshal(snap.Data())
	if err != nil {
		return nil, fmt.Errorf("failed to encode remote document: %w", err)
	}
	return payload, nil
}

func (s *FirestoreStore) Write(ctx context.Context, fields map[string]interface{}) error {
	if _, err := s.doc.Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to write remote document: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Subscribe(ctx context.Context, onChange func([]byte), onError func(error)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := s.doc.Snapshots(ctx)

	go func() {
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || ctx.Err() != nil {
					return
				}
				onError(err)
				return
			}
			if !snap.Exists() {
				continue
			}

			payload, err := json.Marshal(snap.Data())
			if err != nil {
				onError(fmt.Errorf("failed to encode remote snapshot: %w", err))
				continue
			}
			onChange(payload)
		}
	}()

	return cancel, nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
