// Package content serves the latest-video lookup.
package content

import (
	"context"
	"errors"

	"github.com/PaulBabatuyi/authapi/internal/apperr"
	"github.com/PaulBabatuyi/authapi/internal/data"
)

// Lookup reads content records from a ContentStore.
type Lookup struct {
	store data.ContentStore
}

// NewLookup returns a Lookup over store.
func NewLookup(store data.ContentStore) *Lookup {
	return &Lookup{store: store}
}

// GetLatest returns the item with the greatest ID, or nil when there is none.
func (l *Lookup) GetLatest(ctx context.Context) (*data.ContentItem, error) {
	item, err := l.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, data.ErrUnavailable) {
			return nil, apperr.Unavailable("latest content", err)
		}
		return nil, apperr.Store("latest content", err)
	}
	return item, nil
}
