package repository

import (
	"context"
	"errors"

	"github.com/feedline/backend/internal/domain/entity"
)

// ErrNotFound is returned when an id does not resolve to an existing
// aggregate. Malformed ids are normalized to this error as well.
var ErrNotFound = errors.New("not found")

// PostRepository is the persistence boundary for the post aggregate.
//
// Mutate loads the aggregate, applies fn in memory, and persists the result.
// Concurrent Mutate calls on the same id are serialized; calls on different
// ids proceed independently. If fn returns an error the aggregate is left
// untouched. Cancellation of ctx leaves the store either fully updated or
// unchanged, never partially written.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	ListAll(ctx context.Context) ([]*entity.Post, error)
	Mutate(ctx context.Context, id string, fn func(*entity.Post) error) (*entity.Post, error)
	Delete(ctx context.Context, id string) error
}
