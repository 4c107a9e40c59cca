// Package store persists the matter and owner sets. The primary backend is
// a pair of flat JSON files reloaded in full on every access and rewritten
// in full on every mutation; an optional Postgres backend offers the same
// load-all/save-all contract for deployments that want a real database.
package store

import (
	"context"

	"matterdesk/api/internal/matter"
)

// MatterStore is the whole-set persistence contract the service works
// against. There are no partial updates: callers read everything, mutate in
// memory and write everything back.
type MatterStore interface {
	LoadAll(ctx context.Context) ([]matter.Matter, error)
	SaveAll(ctx context.Context, matters []matter.Matter) error
}

// OwnerStore persists the owner set with the same whole-set contract.
type OwnerStore interface {
	LoadAll(ctx context.Context) ([]matter.Owner, error)
	SaveAll(ctx context.Context, owners []matter.Owner) error
}
