// Package storage persists the current session across process restarts.
//
// A session occupies two durable keys: the bearer token and the serialized
// user profile. Both are written together and cleared together so a reader
// never observes a token without a profile or the other way around.
package storage

import (
	"context"

	"github.com/badalot/crm-banking-insurance/internal/domain/model"
)

// Store is the durable home of the current session. Load fails soft: a
// missing or malformed session comes back as ok=false with a nil error, and
// an error is returned only when the backing medium itself is unreachable.
// Only the session manager writes to a Store.
type Store interface {
	Load(ctx context.Context) (model.Session, bool, error)
	Save(ctx context.Context, session model.Session) error
	Clear(ctx context.Context) error
}
