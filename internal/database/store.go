package database

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mrlokans/bookshelf/internal/apperrors"
)

// Store persists whole collections of JSON records.
//
// Load returns a NotInitialized error for a collection that was never created.
// Save replaces the collection atomically: a concurrent or later Load observes
// either the previous records or the new ones, never a mix.
type Store interface {
	Load(collection string) ([]json.RawMessage, error)
	Save(collection string, records []json.RawMessage) error
	// Create makes an empty collection if it does not exist yet.
	Create(collection string) error
}

func checkCollectionName(collection string) error {
	if collection == "" || strings.ContainsAny(collection, `/\.`) || strings.TrimSpace(collection) != collection {
		return apperrors.Internal(fmt.Sprintf("invalid collection name %q", collection))
	}
	return nil
}

func copyRecords(records []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(records))
	for i, r := range records {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out
}
